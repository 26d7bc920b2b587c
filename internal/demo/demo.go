// Package demo — пример схемы для быстрого старта.
package demo

// Base — базовый каталог из примера; его стоит поменять под себя.
const Base = "./treemaker-demo"

// Diagram — пример проекта со статикой и шаблонами.
const Diagram = `folders_and_files_structure_demo/
├── static/
│   ├── css/
│   │   ├── base/
│   │   │   ├── reset.css
│   │   │   ├── styles.css
│   │   ├── theme/
│   │   │   ├── dark.css
│   │   │   ├── light.css
│   ├── js/
│   │   ├── modules/
│   │   │   ├── app.js
│   │   │   ├── service.js
│   │   ├── vendor/
│   │   │   ├── jquery.js
│   │   │   ├── bootstrap.js
├── templates/
│   ├── layouts/
│   │   ├── header.html
│   │   ├── footer.html
│   ├── includes/
│   │   ├── navbar.html
│   │   ├── sidebar.html
│   ├── pages/
│   │   ├── home.html
│   │   ├── about.html
├── app.py
├── models.py
└── database.db
`
