package main

import (
	"context"
	"flag"
	"log"

	"support-desk/pkg/config"
	"support-desk/pkg/database/postgresql"
	"support-desk/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runCategories := flag.Bool("categories", false, "Стандартные категории заявок")
	runDemo := flag.Bool("demo", false, "Демонстрационные компании")
	runAll := flag.Bool("all", false, "Запустить все сидеры (эквивалентно -categories -demo)")

	flag.Parse()

	if !*runCategories && !*runDemo && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -categories")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	ctx := context.Background()

	if *runAll || *runCategories {
		if err := seeders.SeedCategories(ctx, dbPool); err != nil {
			log.Fatalf("Ошибка сидера категорий: %v", err)
		}
	}
	if *runAll || *runDemo {
		if err := seeders.SeedDemoCompanies(ctx, dbPool); err != nil {
			log.Fatalf("Ошибка сидера компаний: %v", err)
		}
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}
