package plan

// Kind — тип элемента дерева.
type Kind int

const (
	File Kind = iota
	Directory
)

func (k Kind) String() string {
	if k == Directory {
		return "dir"
	}
	return "file"
}

// MarshalText нужен, чтобы в json/yaml отчёте был "dir"/"file", а не число.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Entry — один элемент дерева: файл или каталог на определённой глубине.
type Entry struct {
	Kind  Kind   `json:"kind" yaml:"kind"`   // каталог или файл
	Name  string `json:"name" yaml:"name"`   // короткое имя без слэшей (один сегмент)
	Depth int    `json:"depth" yaml:"depth"` // абсолютная глубина, включая компоненты базового пути
}

// Status — что произошло с элементом на диске.
type Status string

const (
	Created Status = "created" // создан в этом запуске
	Exists  Status = "exists"  // уже был, не трогали
	Planned Status = "planned" // dry-run: был бы создан
)

// Step — результат обработки одной строки схемы.
type Step struct {
	Line   int `json:"line" yaml:"line"`
	Entry  `yaml:",inline"`
	Path   string `json:"path" yaml:"path"`
	Status Status `json:"status" yaml:"status"`
}

// Plan — отчёт о запуске: база и шаги по порядку.
// При ошибке содержит только шаги, выполненные до неё.
type Plan struct {
	Base  string `json:"base" yaml:"base"`
	Steps []Step `json:"steps" yaml:"steps"`
}

// Dirs считает каталоги в отчёте.
func (p Plan) Dirs() int { return p.count(func(s Step) bool { return s.Kind == Directory }) }

// Files считает файлы в отчёте.
func (p Plan) Files() int { return p.count(func(s Step) bool { return s.Kind == File }) }

// Created считает элементы, созданные в этом запуске.
func (p Plan) Created() int { return p.count(func(s Step) bool { return s.Status == Created }) }

func (p Plan) count(match func(Step) bool) int {
	n := 0
	for _, s := range p.Steps {
		if match(s) {
			n++
		}
	}
	return n
}
