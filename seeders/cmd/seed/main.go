package main

import (
	"flag"
	"log"

	"erp-system/pkg/config"
	"erp-system/pkg/database/postgresql"
	"erp-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runPermissions := flag.Bool("permissions", false, "Наполнить справочник прав")
	runRoles := flag.Bool("roles", false, "Создать роль Admin, компанию и супер-администратора")
	runAll := flag.Bool("all", false, "Запустить все сидеры")

	flag.Parse()

	if !*runPermissions && !*runRoles && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Пример: go run ./seeders/cmd/seed -all")
		return
	}

	cfg := config.New()
	log.Println("📦 Используется DSN:", cfg.Postgres.DSN)
	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	if *runAll || *runPermissions {
		seeders.SeedPermissions(dbPool)
		log.Println("======================================================")
	}

	if *runAll || *runRoles {
		// роль и администратор требуют заполненного справочника прав
		seeders.SeedRolesAndAdmin(dbPool)
		log.Println("======================================================")
	}

	log.Println("🎉 Сидеры завершены")
}
