package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"treemaker/internal/plan"
	"treemaker/internal/safety"
)

// Line — разобранная строка схемы.
type Line struct {
	Connectors int // сколько маркеров вложенности в строке
	Kind       plan.Kind
	Name       string
	Branch     bool // есть ветка ├── или └──
	Indent     int  // ширина в символах до последней ветки (или до имени, если веток нет)
}

// Dialect — как считать вложенность.
// По умолчанию только псевдографика (│  , ├──, └──): каждый маркер — один уровень.
type Dialect struct {
	ASCII  bool // дополнительно |  , |--, `--, +--
	Indent bool // глубина по ширине отступа перед веткой, см. IndentTracker
}

// \s в RE2 не включает неразрывный пробел, а tree в UTF-8 режиме выводит именно его.
const ws = `[\s\x{00A0}]`

var (
	unicodeConnectors = regexp.MustCompile(`│` + ws + `{2}|├──|└──`)
	asciiConnectors   = regexp.MustCompile(`│` + ws + `{2}|├──|└──|\|` + ws + "{2}|\\|--|`--|\\+--")

	unicodeBranches = regexp.MustCompile(`├──|└──`)
	asciiBranches   = regexp.MustCompile("├──|└──|\\|--|`--|\\+--")

	// Последний токен строки и необязательный "/" после него.
	entryPattern = regexp.MustCompile(`(?:^|[^\p{L}\p{N}._-])([\p{L}\p{N}._-]+)` + ws + `*(/?)` + ws + `*$`)

	// Пояснение в конце строки: "app/   # исходники".
	annotation = regexp.MustCompile(`(?:^|` + ws + `+)#.*$`)

	// Итоговая строка tree: "3 directories, 5 files".
	treeSummary = regexp.MustCompile(`^\d+ director(?:y|ies)(?:, \d+ files?)?$`)
)

// Classify разбирает одну строку стандартного диалекта.
func Classify(line string) (Line, bool) {
	return Dialect{}.Classify(line)
}

// Classify возвращает элемент строки и его вклад в глубину.
// Пустые строки, строки без имени и итоговая строка tree дают ok == false:
// ручные схемы часто неаккуратны, поэтому это не ошибка.
func (d Dialect) Classify(line string) (Line, bool) {
	line = norm.NFC.String(strings.TrimPrefix(line, "\ufeff"))
	line = annotation.ReplaceAllString(line, "")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || treeSummary.MatchString(trimmed) {
		return Line{}, false
	}

	m := entryPattern.FindStringSubmatch(line)
	if m == nil {
		return Line{}, false
	}
	name := m[1]
	if safety.ValidateName(name) != nil {
		return Line{}, false
	}

	kind := plan.File
	if m[2] == "/" {
		kind = plan.Directory
	}

	l := Line{
		Connectors: d.countConnectors(line),
		Kind:       kind,
		Name:       name,
	}
	l.Branch, l.Indent = d.indent(line)
	return l, true
}

// countConnectors считает маркеры слева направо без перекрытий.
// Ширину отступов не проверяем: кривые схемы разбираем как получится.
func (d Dialect) countConnectors(line string) int {
	re := unicodeConnectors
	if d.ASCII {
		re = asciiConnectors
	}
	return len(re.FindAllStringIndex(line, -1))
}

// indent находит последнюю ветку строки и ширину префикса перед ней.
func (d Dialect) indent(line string) (bool, int) {
	re := unicodeBranches
	if d.ASCII {
		re = asciiBranches
	}
	if loc := re.FindAllStringIndex(line, -1); len(loc) > 0 {
		return true, utf8.RuneCountInString(line[:loc[len(loc)-1][0]])
	}
	n := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return false, n
}

// indentWidth — ширина одного уровня в выводе tree: "│   " или "├── ".
const indentWidth = 4

// IndentTracker считает глубину по отступам, как их печатает tree:
// под последней веткой (└──) уровни отбиваются только пробелами,
// и маркеров "│" там нет. Отступ считается от последней строки без ветки
// (корня схемы), поэтому общий сдвиг всей схемы вправо не мешает.
type IndentTracker struct {
	baseline int
}

// Connectors возвращает вклад строки в глубину.
func (t *IndentTracker) Connectors(l Line) int {
	if !l.Branch {
		t.baseline = l.Indent
		return 0
	}
	n := (l.Indent-t.baseline)/indentWidth + 1
	if n < 1 {
		n = 1
	}
	return n
}
