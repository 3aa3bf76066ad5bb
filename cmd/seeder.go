package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	datamodel "github.com/frahmantamala/payment-integration/internal/core/datamodel/gatewayconfig"
	"github.com/frahmantamala/payment-integration/internal/gateway"
	"github.com/frahmantamala/payment-integration/internal/gatewayconfig"
	gatewayconfigpg "github.com/frahmantamala/payment-integration/internal/gatewayconfig/postgres"
	"github.com/frahmantamala/payment-integration/internal/secrets"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sandbox gateway accounts",
	Long:  `Seed the database with sandbox gateway configurations for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm over db connection: %v", err)
		}

		if clearData {
			if err := gormDB.Exec("DELETE FROM gateway_configs").Error; err != nil {
				log.Fatalf("failed to clear gateway configs: %v", err)
			}
			fmt.Println("Cleared existing gateway configs")
		}

		secretStore, err := secrets.NewFromConfig(cfg.Secrets)
		if err != nil {
			log.Fatalf("failed to initialize secret store: %v", err)
		}

		repo := gatewayconfigpg.NewGatewayConfigRepository(gormDB)
		ctx := context.Background()

		accounts := []struct {
			Provider       string
			GatewayName    string
			PublishableKey string
			SecretKey      string
			Currencies     []string
			Minimums       map[string]float64
		}{
			{
				Provider:       "izipay",
				GatewayName:    "main",
				PublishableKey: "pk_test_51sandboxizipay",
				SecretKey:      "sk_test_51sandboxizipay",
				Currencies:     []string{"PEN", "USD"},
				Minimums:       map[string]float64{"PEN": 1, "USD": 1},
			},
			{
				Provider:       "culqi",
				GatewayName:    "main",
				PublishableKey: "pk_test_sandboxculqi",
				SecretKey:      "sk_test_sandboxculqi",
				Currencies:     []string{"PEN"},
				Minimums:       map[string]float64{"PEN": 1},
			},
		}

		for _, acc := range accounts {
			ref := gatewayconfig.SecretRef(acc.Provider, acc.GatewayName)
			if err := secretStore.Set(ctx, ref, acc.SecretKey); err != nil {
				// The env backend cannot take writes; the operator exports
				// the variable instead.
				fmt.Printf("could not store secret %s (%v)\n", ref, err)
			}

			currencies, err := json.Marshal(acc.Currencies)
			if err != nil {
				log.Fatalf("failed to encode currencies for %s: %v", acc.GatewayName, err)
			}
			minimums, err := json.Marshal(acc.Minimums)
			if err != nil {
				log.Fatalf("failed to encode minimum amounts for %s: %v", acc.GatewayName, err)
			}

			row := &datamodel.GatewayConfig{
				Provider:            acc.Provider,
				GatewayName:         acc.GatewayName,
				PublishableKey:      acc.PublishableKey,
				SecretKeyRef:        ref,
				SupportedCurrencies: currencies,
				MinimumAmounts:      minimums,
				Enabled:             true,
				UpdatedBy:           "seed",
			}
			if err := repo.Upsert(row); err != nil {
				log.Fatalf("failed to seed gateway %s/%s: %v", acc.Provider, acc.GatewayName, err)
			}

			fmt.Println("Seeded gateway:", gateway.ServiceName(acc.Provider, acc.GatewayName))
		}

		fmt.Println("Seeding complete. Enabled gateways register on the next server start.")
	},
}
