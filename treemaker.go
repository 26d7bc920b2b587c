// Package treemaker создаёт каталоги и пустые файлы по tree-подобной схеме:
//
//	app/
//	├── src/
//	│   ├── main.go
//	└── README.md
//
// Каталоги помечаются "/" в конце имени, вложенность задают маркеры │, ├──, └──.
package treemaker

import (
	"context"

	"treemaker/internal/builder"
)

// FilesystemError — ошибка создания элемента; см. errors.As.
type FilesystemError = builder.FilesystemError

// Build создаёт дерево diagram внутри basePath.
// Возвращает первую ошибку (*FilesystemError); созданное до неё не удаляется.
// Повторный запуск ничего не перезаписывает.
func Build(ctx context.Context, basePath, diagram string) error {
	return builder.Build(ctx, basePath, diagram)
}
