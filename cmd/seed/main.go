// Command seed loads employees, organizations and responsibility links
// from a YAML fixture file. Employees and organizations have no HTTP
// surface; this is how they enter the system.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gopkg.in/yaml.v3"

	"tenderwork/db"
	"tenderwork/internal/config"
	"tenderwork/models"
)

type fixtures struct {
	Employees []struct {
		Username  string `yaml:"username"`
		FirstName string `yaml:"first_name"`
		LastName  string `yaml:"last_name"`
	} `yaml:"employees"`
	Organizations []struct {
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Type        string   `yaml:"type"`
		Responsible []string `yaml:"responsible"`
	} `yaml:"organizations"`
}

func main() {
	file := flag.String("f", "fixtures.yaml", "fixture file to load")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.PostgresConn == "" {
		log.Fatal("POSTGRES_CONN is not set")
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read fixtures: %v", err)
	}
	var fx fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		log.Fatalf("parse fixtures: %v", err)
	}

	dbConn, err := sqlx.Connect("postgres", cfg.PostgresConn)
	if err != nil {
		log.Fatalf("cannot connect to DB: %v", err)
	}
	defer dbConn.Close()

	store := db.NewStorage(dbConn)
	ctx := context.Background()

	err = store.InTx(ctx, func(s db.Store) error {
		byUsername := map[string]*models.Employee{}
		for _, e := range fx.Employees {
			emp := &models.Employee{
				Username:  e.Username,
				FirstName: e.FirstName,
				LastName:  e.LastName,
			}
			if err := s.CreateEmployee(ctx, emp); err != nil {
				return err
			}
			byUsername[emp.Username] = emp
			log.Printf("employee %s (%s)", emp.Username, emp.ID)
		}

		for _, o := range fx.Organizations {
			orgType := models.OrganizationType(o.Type)
			if !orgType.Valid() {
				return fmt.Errorf("organization %q: type must be one of IE, LLC, JSC", o.Name)
			}
			org := &models.Organization{
				Name:        o.Name,
				Description: o.Description,
				Type:        orgType,
			}
			if err := s.CreateOrganization(ctx, org); err != nil {
				return err
			}
			log.Printf("organization %s (%s)", org.Name, org.ID)

			for _, username := range o.Responsible {
				emp, ok := byUsername[username]
				if !ok {
					found, err := s.GetEmployeeByUsername(ctx, username)
					if err != nil {
						return err
					}
					emp = found
				}
				if err := s.AddOrganizationResponsible(ctx, org.ID, emp.ID); err != nil {
					return err
				}
				log.Printf("  responsible: %s", username)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
}
