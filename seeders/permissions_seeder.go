package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"erp-system/internal/authz"
)

// SeedPermissions наполняет справочник прав. Повторный запуск безопасен.
func SeedPermissions(db *pgxpool.Pool) {
	log.Println("🌱 Наполнение справочника прав...")
	ctx := context.Background()

	for _, name := range authz.All {
		_, err := db.Exec(ctx, `
			INSERT INTO permissions (name, created_at, updated_at)
			VALUES ($1, NOW(), NOW())
			ON CONFLICT (name) DO NOTHING
		`, name)
		if err != nil {
			log.Fatalf("❌ Не удалось вставить право %q: %v", name, err)
		}
	}

	log.Printf("✅ Права готовы (%d шт.)", len(authz.All))
}
