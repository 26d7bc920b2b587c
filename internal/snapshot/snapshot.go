// Package snapshot печатает существующий каталог в виде схемы,
// которую понимает treemaker build.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xlab/treeprint"
)

// Options — что включать в снимок.
type Options struct {
	MaxDepth int  // 0 без ограничения
	Hidden   bool // включать имена, начинающиеся с "."
}

// Render обходит root и возвращает схему: каталоги с "/" на конце.
// Ссылки не разворачиваются и печатаются как файлы.
func Render(root string, o Options) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("snapshot %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("snapshot %s: не каталог", root)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	tree := treeprint.NewWithRoot(filepath.Base(abs) + "/")
	if err := walk(tree, abs, 1, o); err != nil {
		return "", err
	}
	return tree.String(), nil
}

func walk(branch treeprint.Tree, dir string, depth int, o Options) error {
	if o.MaxDepth > 0 && depth > o.MaxDepth {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("чтение %s: %w", dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if !o.Hidden && strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			child := branch.AddBranch(name + "/")
			if err := walk(child, filepath.Join(dir, name), depth+1, o); err != nil {
				return err
			}
			continue
		}
		branch.AddNode(name)
	}
	return nil
}
