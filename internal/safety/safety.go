package safety

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrEscape — результат соединения вышел за пределы родителя.
var ErrEscape = errors.New("выход за пределы каталога")

// ErrInvalidName — имя не годится для одного элемента дерева.
var ErrInvalidName = errors.New("недопустимое имя")

// ValidateName принимает только один сегмент пути: без разделителей и NUL,
// не ".", не "..". Все отказы оборачивают ErrInvalidName.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: пустое", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q ссылается на каталог стека", ErrInvalidName, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q содержит разделитель или NUL", ErrInvalidName, name)
	case filepath.IsAbs(name) || filepath.VolumeName(name) != "":
		return fmt.Errorf("%w: %q задаёт абсолютный путь", ErrInvalidName, name)
	}
	return nil
}

// SafeJoin объединяет root и parts и убеждается, что результат остаётся внутри root.
// Для root == "/" или "." результатом всегда будет путь внутри root.
func SafeJoin(root string, parts ...string) (string, error) {
	for _, p := range parts {
		if err := ValidateName(p); err != nil {
			return "", err
		}
	}
	p := filepath.Join(append([]string{root}, parts...)...)
	cleanRoot := filepath.Clean(root)
	cleanP := filepath.Clean(p)

	rel, err := filepath.Rel(cleanRoot, cleanP)
	if err != nil {
		return "", err
	}
	relSl := filepath.ToSlash(rel)
	if relSl == ".." || strings.HasPrefix(relSl, "../") {
		return "", fmt.Errorf("%w: %s", ErrEscape, p)
	}
	return cleanP, nil
}
