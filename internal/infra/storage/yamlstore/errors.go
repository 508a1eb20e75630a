package yamlstore

import "errors"

var (
	// ErrReadFile возвращается, когда файл не удалось прочитать
	ErrReadFile = errors.New("yamlstore: failed to read file")

	// ErrParse возвращается при ошибке разбора YAML
	ErrParse = errors.New("yamlstore: failed to parse document")

	// ErrInvalidDocument возвращается, когда документ не прошел проверку
	ErrInvalidDocument = errors.New("yamlstore: invalid document")
)
