package tracker

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES (Порты персистентности)
// ══════════════════════════════════════════════════════════════════════════════

// SnapshotRepository - внешнее хранилище документа аккаунта.
// Хранилище однописательное: каждая запись заменяет документ целиком,
// частичных обновлений нет.
type SnapshotRepository interface {
	// Load загружает документ аккаунта.
	// Возвращает shared.ErrSnapshotNotFound, если документа ещё нет.
	Load(ctx context.Context, accountID string) (Snapshot, error)

	// Replace заменяет документ аккаунта целиком.
	Replace(ctx context.Context, accountID string, snap Snapshot) error
}

// SnapshotCache - быстрый кэш документа поверх основного хранилища.
// Промах кэша не является ошибкой уровня домена.
type SnapshotCache interface {
	// Get возвращает закэшированный документ.
	Get(ctx context.Context, accountID string) (Snapshot, error)

	// Set записывает документ в кэш.
	Set(ctx context.Context, accountID string, snap Snapshot) error
}
