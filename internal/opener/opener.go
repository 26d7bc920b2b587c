package opener

import (
	"fmt"
	"os/exec"
	"runtime"
)

// start запускает процесс и не ждёт его завершения. Подменяется в тестах.
var start = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Command возвращает команду файлового менеджера для goos.
func Command(goos, path string) (string, []string) {
	switch goos {
	case "windows":
		return "explorer", []string{path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}

// Open открывает path в системном файловом менеджере.
func Open(path string) error {
	name, args := Command(runtime.GOOS, path)
	if err := start(name, args...); err != nil {
		return fmt.Errorf("не удалось открыть %s через %s: %w", path, name, err)
	}
	return nil
}
