// Package resolver хранит стек каталогов одного запуска и превращает
// глубину строки в путь родительского каталога.
package resolver

import (
	"path/filepath"
	"strings"
)

// Stack — состояние разбора одного запуска. Не разделяется между запусками.
type Stack struct {
	prefix    string // корень файловой системы для абсолютной базы ("/" или "C:\")
	dirs      []string
	rootDepth int
}

// New создаёт стек, засеянный непустыми компонентами базового пути.
func New(basePath string) *Stack {
	s := &Stack{}
	s.Reset(basePath)
	return s
}

// Reset очищает стек и засевает его заново.
func (s *Stack) Reset(basePath string) {
	s.dirs = s.dirs[:0]
	s.prefix = ""

	clean := filepath.Clean(basePath)
	if filepath.IsAbs(clean) {
		vol := filepath.VolumeName(clean)
		s.prefix = vol + string(filepath.Separator)
		clean = clean[len(vol):]
	}
	for _, part := range strings.Split(filepath.ToSlash(clean), "/") {
		if part != "" {
			s.dirs = append(s.dirs, part)
		}
	}
	s.rootDepth = len(s.dirs)
}

// RootDepth — сколько компонентов внёс базовый путь.
func (s *Stack) RootDepth() int { return s.rootDepth }

// Len возвращает число каталогов в стеке.
func (s *Stack) Len() int { return len(s.dirs) }

// Depth переводит число маркеров строки в абсолютную глубину.
func (s *Stack) Depth(connectors int) int { return s.rootDepth + connectors }

// Resolve срезает стек до depth и возвращает путь к текущему каталогу.
// Стек только укорачивается: слишком глубокая строка цепляется
// к самому глубокому открытому каталогу.
func (s *Stack) Resolve(depth int) string {
	if depth < 0 {
		depth = 0
	}
	if depth < len(s.dirs) {
		s.dirs = s.dirs[:depth]
	}
	return s.Path()
}

// Path возвращает путь всего стека.
func (s *Stack) Path() string {
	if len(s.dirs) == 0 {
		if s.prefix != "" {
			return s.prefix
		}
		return "."
	}
	return filepath.Join(append([]string{s.prefix}, s.dirs...)...)
}

// Push открывает каталог name. Вызывать только после его успешного создания.
func (s *Stack) Push(name string) {
	s.dirs = append(s.dirs, name)
}
