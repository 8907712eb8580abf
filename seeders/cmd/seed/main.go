package main

import (
	"flag"
	"log"

	"maintenance-system/pkg/config"
	"maintenance-system/pkg/database/postgresql"
	"maintenance-system/seeders"
)

func main() {
	runBaseline := flag.Bool("baseline", false, "seed default locations and starter spare parts")
	runAdmin := flag.Bool("admin", false, "create the initial administrator account")
	runAll := flag.Bool("all", false, "run every seeder")
	flag.Parse()

	if !*runBaseline && !*runAdmin && !*runAll {
		log.Println("no seeder selected")
		flag.PrintDefaults()
		return
	}

	cfg := config.New()
	pool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer pool.Close()

	if *runAll || *runBaseline {
		seeders.SeedBaseline(pool)
	}
	if *runAll || *runAdmin {
		seeders.SeedAdmin(pool)
	}

	log.Println("seeding finished")
}
