package snapshotcache

import "errors"

var (
	// ErrCacheMiss возвращается, когда снимка нет в кэше или срок его жизни истек
	ErrCacheMiss = errors.New("snapshotcache: cache miss")

	// ErrCache возвращается при ошибках redis или сериализации
	ErrCache = errors.New("snapshotcache: cache error")
)
