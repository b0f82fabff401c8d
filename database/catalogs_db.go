package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vipfat/Sbis-Yen/catalog"
)

// CatalogsDB обертка для работы с базой данных справочников
type CatalogsDB struct {
	conn *sql.DB
}

// DBConfig настройки пула подключений
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewCatalogsDB создает новое подключение к базе данных справочников
func NewCatalogsDB(dbPath string) (*CatalogsDB, error) {
	return NewCatalogsDBWithConfig(dbPath, DBConfig{})
}

// NewCatalogsDBWithConfig создает новое подключение к базе данных справочников с конфигурацией
func NewCatalogsDBWithConfig(dbPath string, config DBConfig) (*CatalogsDB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogs database: %w", err)
	}

	// Настройка connection pooling. У базы в памяти каждое новое
	// подключение видит пустую базу, поэтому пул сводится к одному.
	switch {
	case dbPath == ":memory:":
		conn.SetMaxOpenConns(1)
	case config.MaxOpenConns > 0:
		conn.SetMaxOpenConns(config.MaxOpenConns)
	default:
		conn.SetMaxOpenConns(25)
	}

	if config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(config.MaxIdleConns)
	} else {
		conn.SetMaxIdleConns(5)
	}

	if config.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	} else {
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	// Проверяем подключение
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping catalogs database: %w", err)
	}

	// Включаем поддержку FOREIGN KEY constraints в SQLite
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Убеждаемся, что SQLite использует UTF-8 для кириллических наименований
	if _, err := conn.Exec("PRAGMA encoding = 'UTF-8'"); err != nil {
		log.Printf("Warning: failed to set UTF-8 encoding: %v", err)
	}

	db := &CatalogsDB{conn: conn}

	if err := initCatalogsSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize catalogs schema: %w", err)
	}

	return db, nil
}

// Close закрывает подключение к базе данных справочников
func (db *CatalogsDB) Close() error {
	return db.conn.Close()
}

// GetDB возвращает указатель на sql.DB для прямого доступа
func (db *CatalogsDB) GetDB() *sql.DB {
	return db.conn
}

// initCatalogsSchema создает таблицы справочников, если их еще нет
func initCatalogsSchema(conn *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS catalog_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		name TEXT NOT NULL,
		code TEXT NOT NULL DEFAULT '',
		unit TEXT NOT NULL,
		unit_code TEXT NOT NULL DEFAULT '',
		price REAL NOT NULL DEFAULT 0,
		UNIQUE(source, name)
	);

	CREATE INDEX IF NOT EXISTS idx_catalog_entries_source ON catalog_entries(source);
	CREATE INDEX IF NOT EXISTS idx_catalog_entries_code ON catalog_entries(source, code);

	CREATE TABLE IF NOT EXISTS recipes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		parent_name TEXT NOT NULL,
		parent_code TEXT NOT NULL DEFAULT '',
		composition_no INTEGER NOT NULL DEFAULT 1,
		base_output REAL NOT NULL DEFAULT 0,
		UNIQUE(parent_name, composition_no)
	);

	CREATE TABLE IF NOT EXISTS recipe_components (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recipe_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		code TEXT NOT NULL DEFAULT '',
		unit TEXT NOT NULL DEFAULT '',
		unit_code TEXT NOT NULL DEFAULT '',
		base_qty REAL NOT NULL DEFAULT 0,
		FOREIGN KEY (recipe_id) REFERENCES recipes(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_recipe_components_recipe ON recipe_components(recipe_id);
	`

	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create catalogs tables: %w", err)
	}
	return nil
}

// ReplaceCatalog полностью заменяет позиции справочника source
func (db *CatalogsDB) ReplaceCatalog(source catalog.Source, entries []catalog.Entry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Очищаем справочник перед загрузкой
	if _, err := tx.Exec("DELETE FROM catalog_entries WHERE source = ?", string(source)); err != nil {
		return fmt.Errorf("failed to clear catalog %s: %w", source, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO catalog_entries (source, name, code, unit, unit_code, price)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		unitCode := entry.UnitCode
		if unitCode == "" {
			unitCode = catalog.OKEIForUnit(entry.Unit)
		}
		if _, err := stmt.Exec(string(source), entry.Name, entry.Code, entry.Unit, unitCode, entry.Price); err != nil {
			return fmt.Errorf("failed to insert entry %q: %w", entry.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Successfully loaded %d entries into catalog %s", len(entries), source)
	return nil
}

// LoadCatalog читает позиции справочника source в порядке загрузки
func (db *CatalogsDB) LoadCatalog(source catalog.Source) ([]catalog.Entry, error) {
	rows, err := db.conn.Query(`
		SELECT name, code, unit, unit_code, price
		FROM catalog_entries
		WHERE source = ?
		ORDER BY id
	`, string(source))
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog %s: %w", source, err)
	}
	defer rows.Close()

	var entries []catalog.Entry
	for rows.Next() {
		var entry catalog.Entry
		if err := rows.Scan(&entry.Name, &entry.Code, &entry.Unit, &entry.UnitCode, &entry.Price); err != nil {
			return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog entries: %w", err)
	}
	return entries, nil
}

// ReplaceRecipes полностью заменяет составы полуфабрикатов
func (db *CatalogsDB) ReplaceRecipes(recipes []catalog.Recipe) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM recipe_components"); err != nil {
		return fmt.Errorf("failed to clear recipe components: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM recipes"); err != nil {
		return fmt.Errorf("failed to clear recipes: %w", err)
	}

	recipeStmt, err := tx.Prepare(`
		INSERT INTO recipes (parent_name, parent_code, composition_no, base_output)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare recipe statement: %w", err)
	}
	defer recipeStmt.Close()

	componentStmt, err := tx.Prepare(`
		INSERT INTO recipe_components (recipe_id, position, name, code, unit, unit_code, base_qty)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare component statement: %w", err)
	}
	defer componentStmt.Close()

	for _, recipe := range recipes {
		compositionNo := recipe.CompositionNo
		if compositionNo == 0 {
			compositionNo = 1
		}

		res, err := recipeStmt.Exec(recipe.ParentName, recipe.ParentCode, compositionNo, recipe.BaseOutput)
		if err != nil {
			return fmt.Errorf("failed to insert recipe %q: %w", recipe.ParentName, err)
		}
		recipeID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get recipe id: %w", err)
		}

		for i, comp := range recipe.Components {
			unitCode := comp.UnitCode
			if unitCode == "" {
				unitCode = catalog.OKEIForUnit(comp.Unit)
			}
			if _, err := componentStmt.Exec(recipeID, i, comp.Name, comp.Code, comp.Unit, unitCode, comp.BaseQty); err != nil {
				return fmt.Errorf("failed to insert component %q of recipe %q: %w", comp.Name, recipe.ParentName, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Successfully loaded %d recipes", len(recipes))
	return nil
}

// LoadRecipes читает составы с составляющими в порядке загрузки
func (db *CatalogsDB) LoadRecipes() ([]catalog.Recipe, error) {
	rows, err := db.conn.Query(`
		SELECT id, parent_name, parent_code, composition_no, base_output
		FROM recipes
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []catalog.Recipe
	var ids []int64
	for rows.Next() {
		var id int64
		var recipe catalog.Recipe
		if err := rows.Scan(&id, &recipe.ParentName, &recipe.ParentCode, &recipe.CompositionNo, &recipe.BaseOutput); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}

	for i, id := range ids {
		components, err := db.loadComponents(id)
		if err != nil {
			return nil, err
		}
		recipes[i].Components = components
	}

	return recipes, nil
}

func (db *CatalogsDB) loadComponents(recipeID int64) ([]catalog.Component, error) {
	rows, err := db.conn.Query(`
		SELECT name, code, unit, unit_code, base_qty
		FROM recipe_components
		WHERE recipe_id = ?
		ORDER BY position
	`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe components: %w", err)
	}
	defer rows.Close()

	var components []catalog.Component
	for rows.Next() {
		var comp catalog.Component
		if err := rows.Scan(&comp.Name, &comp.Code, &comp.Unit, &comp.UnitCode, &comp.BaseQty); err != nil {
			return nil, fmt.Errorf("failed to scan recipe component: %w", err)
		}
		components = append(components, comp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipe components: %w", err)
	}
	return components, nil
}
