// Package fuzztests houses Go fuzz harnesses for the front end
// (source -> lexer -> stream -> parser -> binder, plus the structural module
// grammar). They guard against panics, hangs and leaked declarations on
// arbitrary input.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер, парсер
// и биндер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
