package catalog

import (
	"strings"

	"github.com/vipfat/Sbis-Yen/matching"
)

// OverrideRule принудительная подстановка для названий-омонимов.
// Бизнес-название позиции иногда почти совпадает с чужим товаром
// («хот» без «соус» — это КОЛБАСКИ ОХОТНИЧЬИ, а не СОУС ХОТ);
// такие случаи фиксируются таблицей данных, а не ветками в коде
// сопоставления, чтобы их можно было аудировать и пополнять.
type OverrideRule struct {
	// Triggers подстроки, любая из которых активирует правило.
	Triggers []string `json:"triggers"`
	// Excludes подстроки-исключения: при наличии любой из них
	// правило не срабатывает.
	Excludes []string `json:"excludes"`
	// Requires подтверждающие подстроки. Если список не пуст, правило
	// срабатывает только когда найдена любая из них либо запрос
	// целиком совпадает с триггером («хот дог» не колбаски, а голое
	// «хот» — колбаски).
	Requires []string `json:"requires"`
	// Canonical каноническое название, которое подставляется.
	Canonical string `json:"canonical"`
}

// Overrides упорядоченный список правил; побеждает первое сработавшее.
type Overrides []OverrideRule

// DefaultOverrides правила подстановки по умолчанию.
func DefaultOverrides() Overrides {
	return Overrides{
		{
			Triggers:  []string{"хот"},
			Excludes:  []string{"соус"},
			Requires:  []string{"колбас", "охот", "кол"},
			Canonical: "КОЛБАСКИ ОХОТНИЧЬИ",
		},
	}
}

// Apply проверяет правила по порядку и возвращает принудительное
// каноническое название, если какое-то правило сработало.
func (o Overrides) Apply(name string) (string, bool) {
	normalized := matching.NormalizeQuery(name)
	if normalized == "" {
		return "", false
	}

	for _, rule := range o {
		if rule.matches(normalized) {
			return rule.Canonical, true
		}
	}
	return "", false
}

func (r OverrideRule) matches(normalized string) bool {
	triggered := false
	for _, trigger := range r.Triggers {
		if trigger != "" && containsFold(normalized, trigger) {
			triggered = true
			break
		}
	}
	if !triggered {
		return false
	}

	for _, exclude := range r.Excludes {
		if exclude != "" && containsFold(normalized, exclude) {
			return false
		}
	}

	if len(r.Requires) == 0 {
		return true
	}
	for _, require := range r.Requires {
		if require != "" && containsFold(normalized, require) {
			return true
		}
	}

	// Голый триггер («хот», «хот.») тоже считается подтверждением.
	bare := strings.TrimRight(normalized, ".")
	for _, trigger := range r.Triggers {
		if bare == matching.NormalizeQuery(trigger) {
			return true
		}
	}
	return false
}

func containsFold(normalized, sub string) bool {
	sub = matching.NormalizeQuery(sub)
	if sub == "" {
		return false
	}
	return strings.Contains(normalized, sub)
}
