package main

import (
	"flag"
	"log"

	"github.com/vipfat/Sbis-Yen/catalog"
	"github.com/vipfat/Sbis-Yen/database"
)

func main() {
	var (
		dbPath           = flag.String("db", "catalogs.db", "путь к базе справочников")
		catalogPath      = flag.String("catalog", "Каталог.xlsx", "книга Excel с каталогом товаров")
		compositionsPath = flag.String("compositions", "Реестр составов.xlsx", "книга Excel с реестром составов")
		productionPath   = flag.String("production", "Производство.xlsx", "книга Excel с готовой продукцией")
		sheet            = flag.String("sheet", "", "имя листа (по умолчанию первый лист книги)")
	)
	flag.Parse()

	db, err := database.NewCatalogsDB(*dbPath)
	if err != nil {
		log.Fatalf("Ошибка открытия базы справочников: %v", err)
	}
	defer db.Close()

	importCatalog(db, catalog.SourceGoods, *catalogPath, *sheet)
	importCatalog(db, catalog.SourceProduction, *productionPath, *sheet)
	importCompositions(db, *compositionsPath, *sheet)

	log.Println("Импорт завершен")
}

// importCatalog читает книгу Excel и целиком подменяет один справочник.
// Отсутствие книги не прерывает остальной импорт.
func importCatalog(db *database.CatalogsDB, source catalog.Source, path, sheet string) {
	entries, err := catalog.LoadEntriesFromExcel(path, sheet)
	if err != nil {
		log.Printf("Справочник %s пропущен: %v", source, err)
		return
	}

	if err := db.ReplaceCatalog(source, entries); err != nil {
		log.Fatalf("Ошибка записи справочника %s: %v", source, err)
	}
	log.Printf("Справочник %s: загружено %d позиций из %s", source, len(entries), path)
}

// importCompositions загружает реестр составов: и как справочник
// родителей для сопоставления, и как рецепты для пересчета выпуска.
func importCompositions(db *database.CatalogsDB, path, sheet string) {
	recipes, err := catalog.LoadRecipesFromExcel(path, sheet)
	if err != nil {
		log.Printf("Реестр составов пропущен: %v", err)
		return
	}

	if err := db.ReplaceRecipes(recipes); err != nil {
		log.Fatalf("Ошибка записи составов: %v", err)
	}

	entries := make([]catalog.Entry, 0, len(recipes))
	seen := make(map[string]bool)
	for _, rec := range recipes {
		if seen[rec.ParentName] {
			continue
		}
		seen[rec.ParentName] = true
		entries = append(entries, catalog.Entry{
			Name: rec.ParentName,
			Code: rec.ParentCode,
		})
	}
	if err := db.ReplaceCatalog(catalog.SourceCompositions, entries); err != nil {
		log.Fatalf("Ошибка записи справочника составов: %v", err)
	}

	log.Printf("Составов: загружено %d (%d родителей) из %s", len(recipes), len(entries), path)
}
