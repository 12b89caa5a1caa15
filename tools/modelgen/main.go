package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gen"
	"gorm.io/gorm"
)

// Regenerates the row structs for the agent access tables from a migrated database.
func main() {
	var dsn, out string
	flag.StringVar(&dsn, "dsn", os.Getenv("AGENTBRIDGE_DB_DSN"), "postgres dsn")
	flag.StringVar(&out, "out", "internal/adapter/repo/gorm/model", "output dir for generated models")
	flag.Parse()

	if dsn == "" {
		log.Fatal("missing --dsn or AGENTBRIDGE_DB_DSN")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:        out,
		ModelPkgPath:   "model",
		Mode:           gen.WithoutContext,
		FieldNullable:  false,
		FieldCoverable: false,
	})
	g.UseDB(db)
	g.GenerateModelAs("api_keys", "APIKey")
	g.GenerateModelAs("lobby_players", "LobbyPlayer")
	g.Execute()

	fmt.Printf("generated access models at %s\n", out)
}
