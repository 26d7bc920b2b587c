package fsops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"treemaker/internal/plan"
)

// ErrConflict — по пути уже есть элемент другого типа.
var ErrConflict = errors.New("конфликт типов")

// Materializer создаёт каталоги и пустые файлы. Обе операции идемпотентны.
type Materializer interface {
	EnsureDir(path string) (plan.Status, error)
	EnsureFile(path string) (plan.Status, error)
}

// Options — параметры создания элементов.
type Options struct {
	Root       string // база запуска; от неё считаются пути для ExecGlobs
	DryRun     bool
	DirPerm    os.FileMode
	FilePerm   os.FileMode
	ExecGlobs  []string
	DBMode0600 bool
}

// New возвращает материализатор под опции: настоящий или dry-run.
func New(o Options) Materializer {
	if o.DirPerm == 0 {
		o.DirPerm = 0o755
	}
	if o.FilePerm == 0 {
		o.FilePerm = 0o644
	}
	if o.DryRun {
		return DryRun{}
	}
	return OS{opts: o}
}

// OS работает с настоящей файловой системой.
type OS struct {
	opts Options
}

// EnsureDir создаёт каталог вместе с недостающими родителями.
// Существующий каталог (или ссылку на него) не трогаем, права выставляем только новым.
func (o OS) EnsureDir(path string) (plan.Status, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return plan.Exists, nil

	case err == nil && !info.IsDir():
		return "", fmt.Errorf("%w: по пути %s уже существует файл", ErrConflict, path)

	case os.IsNotExist(err):
		if err := os.MkdirAll(path, o.opts.DirPerm); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", path, err)
		}
		// MkdirAll подчиняется umask, поэтому права выставляем явно.
		if err := os.Chmod(path, o.opts.DirPerm); err != nil {
			return "", fmt.Errorf("chmod %s: %w", path, err)
		}
		return plan.Created, nil

	default:
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
}

// EnsureFile создаёт пустой файл, только если по пути ничего нет.
// Существующий файл или каталог остаётся как есть: повторный запуск
// по частично созданному дереву ничего не портит.
func (o OS) EnsureFile(path string) (plan.Status, error) {
	if _, err := o.EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}

	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return plan.Exists, nil

	case os.IsNotExist(err):
		mode := o.fileMode(path)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, mode)
		if err != nil {
			// Кто-то успел создать файл между Lstat и OpenFile.
			if errors.Is(err, os.ErrExist) {
				return plan.Exists, nil
			}
			return "", fmt.Errorf("create %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close %s: %w", path, err)
		}
		if err := os.Chmod(path, mode); err != nil {
			return "", fmt.Errorf("chmod %s: %w", path, err)
		}
		return plan.Created, nil

	default:
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
}

// fileMode выбирает права файла: 0600 для баз данных, 0755 по ExecGlobs.
func (o OS) fileMode(path string) os.FileMode {
	rel := path
	if o.opts.Root != "" {
		if r, err := filepath.Rel(o.opts.Root, path); err == nil {
			rel = r
		}
	}
	relSl := filepath.ToSlash(rel)

	if o.opts.DBMode0600 {
		lower := strings.ToLower(relSl)
		for _, ext := range []string{".db", ".sqlite", ".sqlite3"} {
			if strings.HasSuffix(lower, ext) {
				return 0o600
			}
		}
	}

	for _, pat := range o.opts.ExecGlobs {
		p := filepath.ToSlash(pat)
		if ok, _ := filepath.Match(p, relSl); ok {
			return 0o755
		}
		// Шаблон без каталога ("*.sh") применяем к имени в любом месте дерева.
		if !strings.Contains(p, "/") {
			if ok, _ := filepath.Match(p, filepath.Base(relSl)); ok {
				return 0o755
			}
		}
	}
	return o.opts.FilePerm
}

// DryRun ничего не создаёт, только сообщает, что было бы сделано.
type DryRun struct{}

func (DryRun) EnsureDir(path string) (plan.Status, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return plan.Exists, nil
	case err == nil:
		return "", fmt.Errorf("%w: по пути %s уже существует файл", ErrConflict, path)
	case os.IsNotExist(err):
		return plan.Planned, nil
	default:
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
}

func (DryRun) EnsureFile(path string) (plan.Status, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return plan.Exists, nil
	case os.IsNotExist(err):
		return plan.Planned, nil
	default:
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
}
