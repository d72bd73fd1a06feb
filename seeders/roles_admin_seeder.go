package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"erp-system/internal/authz"
)

const (
	adminEmail    = "admin@erp.local"
	adminPassword = "admin12345"
)

// SeedRolesAndAdmin создаёт роль Admin со всеми правами, стартовую компанию
// с головным филиалом и супер-администратора.
func SeedRolesAndAdmin(db *pgxpool.Pool) {
	ctx := context.Background()

	roleID, err := seedAdminRole(ctx, db)
	if err != nil {
		log.Fatalf("❌ Сидер ролей упал: %v", err)
	}

	companyID, branchID, err := seedDefaultCompany(ctx, db)
	if err != nil {
		log.Fatalf("❌ Сидер компании упал: %v", err)
	}

	if err := seedAdminUser(ctx, db, companyID, branchID, roleID); err != nil {
		log.Fatalf("❌ Сидер администратора упал: %v", err)
	}
}

func seedAdminRole(ctx context.Context, db *pgxpool.Pool) (uint64, error) {
	log.Println("🌱 Создание роли 'Admin'...")

	var roleID uint64
	err := db.QueryRow(ctx, "SELECT id FROM roles WHERE name = 'Admin'").Scan(&roleID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = db.QueryRow(ctx, `
			INSERT INTO roles (name, description, created_at, updated_at)
			VALUES ('Admin', 'Полный доступ ко всем модулям', NOW(), NOW())
			RETURNING id
		`).Scan(&roleID)
	}
	if err != nil {
		return 0, fmt.Errorf("роль Admin: %w", err)
	}

	for _, name := range authz.All {
		_, err := db.Exec(ctx, `
			INSERT INTO role_permissions (role_id, permission_id)
			SELECT $1, id FROM permissions WHERE name = $2
			ON CONFLICT DO NOTHING
		`, roleID, name)
		if err != nil {
			return 0, fmt.Errorf("привязка права %q: %w", name, err)
		}
	}

	log.Println("✅ Роль 'Admin' готова")
	return roleID, nil
}

func seedDefaultCompany(ctx context.Context, db *pgxpool.Pool) (uint64, uint64, error) {
	log.Println("🌱 Создание стартовой компании и головного филиала...")

	var companyID uint64
	err := db.QueryRow(ctx, "SELECT id FROM companies WHERE name = 'Головная компания'").Scan(&companyID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = db.QueryRow(ctx, `
			INSERT INTO companies (name, is_active, created_at, updated_at)
			VALUES ('Головная компания', TRUE, NOW(), NOW())
			RETURNING id
		`).Scan(&companyID)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("компания: %w", err)
	}

	var branchID uint64
	err = db.QueryRow(ctx, "SELECT id FROM branches WHERE company_id = $1 AND code = 'HQ'", companyID).Scan(&branchID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = db.QueryRow(ctx, `
			INSERT INTO branches (company_id, code, name, is_active, created_at, updated_at)
			VALUES ($1, 'HQ', 'Головной офис', TRUE, NOW(), NOW())
			RETURNING id
		`, companyID).Scan(&branchID)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("филиал: %w", err)
	}

	log.Println("✅ Компания и филиал готовы")
	return companyID, branchID, nil
}

func seedAdminUser(ctx context.Context, db *pgxpool.Pool, companyID, branchID, roleID uint64) error {
	log.Println("🌱 Создание супер-администратора...")

	var existingID uint64
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", adminEmail).Scan(&existingID)
	if err == nil {
		log.Println("  - Администратор уже существует. Пропускаем.")
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("проверка администратора: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("хэширование пароля: %w", err)
	}

	_, err = db.Exec(ctx, `
		INSERT INTO users (company_id, email, username, first_name, last_name, password, role_id, branch_id, is_active, created_at, updated_at)
		VALUES ($1, $2, 'admin', 'Super', 'Admin', $3, $4, $5, TRUE, NOW(), NOW())
	`, companyID, adminEmail, string(hash), roleID, branchID)
	if err != nil {
		return fmt.Errorf("вставка администратора: %w", err)
	}

	log.Printf("✅ Администратор создан: %s / %s", adminEmail, adminPassword)
	return nil
}
