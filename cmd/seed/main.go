// Command seed loads a development dataset: one admin, three companies with
// PIBs, a small catalog per company and cross-company invoices with items.
// Existing rows (matched by email, code or number) are reused, so reruns are
// safe.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/stefankostic/efakture/internal/domain/entity"
	"github.com/stefankostic/efakture/internal/infrastructure/postgres"
	"github.com/stefankostic/efakture/pkg/config"
	"github.com/stefankostic/efakture/pkg/logger"
)

type companySeed struct {
	email    string
	name     string
	pib      string
	verified bool
	password string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()

	if cfg.DB.Migrate {
		if err := postgres.RunMigrations(cfg.DB); err != nil {
			log.Fatal().Err(err).Msg("database migrations")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)

	admin, err := ensureUser(userRepo, "admin@sef.local", "System Admin", entity.RoleAdmin, nil, true, "admin123")
	if err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}

	seeds := []companySeed{
		{"alpha@company.local", "Alpha d.o.o.", "100000001", true, "alpha123"},
		{"beta@company.local", "Beta d.o.o.", "100000002", true, "beta123"},
		{"gamma@company.local", "Gamma d.o.o.", "100000003", false, "gamma123"},
	}

	companies := make([]*entity.User, 0, len(seeds))
	for _, s := range seeds {
		pib := s.pib
		u, err := ensureUser(userRepo, s.email, s.name, entity.RoleCompany, &pib, s.verified, s.password)
		if err != nil {
			log.Fatal().Err(err).Str("email", s.email).Msg("seed company")
		}
		companies = append(companies, u)
	}

	// Three catalog entries per company.
	catalog := []struct {
		code     string
		name     string
		material string
	}{
		{"USL-001", "Usluga", "usluga"},
		{"MAT-002", "Materijal", "materijal"},
		{"TRN-003", "Transport", "transport"},
	}
	products := map[string]*entity.Product{} // key: ownerID/code
	for _, comp := range companies {
		for _, item := range catalog {
			p, err := ensureProduct(productRepo, comp.ID, item.code, item.name, item.material)
			if err != nil {
				log.Fatal().Err(err).Str("code", item.code).Msg("seed product")
			}
			products[fmt.Sprintf("%d/%s", comp.ID, item.code)] = p
		}
	}

	// Each company issues three invoices to the next one.
	statuses := []entity.InvoiceStatus{entity.StatusDraft, entity.StatusSent, entity.StatusPaid}
	today := time.Now().UTC().Truncate(24 * time.Hour)

	created := 0
	for idx, issuer := range companies {
		recipient := companies[(idx+1)%len(companies)]
		for n := 1; n <= 3; n++ {
			number := fmt.Sprintf("%s-INV-%d-%03d", *issuer.PIB, today.Year(), n)
			exists, err := invoiceExists(invoiceRepo, issuer.ID, number)
			if err != nil {
				log.Fatal().Err(err).Str("number", number).Msg("seed invoice lookup")
			}
			if exists {
				continue
			}

			issue := today.AddDate(0, 0, -n*3)
			due := issue.AddDate(0, 0, 14)
			note := fmt.Sprintf("Seed faktura %d za %s", n, issuer.Name)

			items := []*entity.InvoiceItem{
				seedItem(products[fmt.Sprintf("%d/USL-001", issuer.ID)], "1", "1000.00", 0),
				seedItem(products[fmt.Sprintf("%d/MAT-002", issuer.ID)], "2", "250.00", 20),
				seedItem(products[fmt.Sprintf("%d/TRN-003", issuer.ID)], "1", "500.00", 10),
			}

			now := time.Now().UTC()
			inv := &entity.Invoice{
				IssuerUserID: issuer.ID,
				IssuerPIB:    *issuer.PIB,
				RecipientPIB: *recipient.PIB,
				Number:       number,
				IssueDate:    issue,
				DueDate:      &due,
				Currency:     "RSD",
				Status:       statuses[(created+n-1)%len(statuses)],
				Note:         &note,
				Items:        items,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			inv.ComputeTotal()

			if err := invoiceRepo.Create(inv); err != nil {
				log.Fatal().Err(err).Str("number", number).Msg("seed invoice")
			}
			for _, it := range inv.Items {
				it.InvoiceID = inv.ID
				if err := invoiceRepo.CreateItem(it); err != nil {
					log.Fatal().Err(err).Str("number", number).Msg("seed invoice item")
				}
			}
			created++
		}
	}

	log.Info().
		Str("admin", admin.Email).
		Int("companies", len(companies)).
		Int("invoices_created", created).
		Msg("seed completed")
}

func ensureUser(repo *postgres.UserRepo, email, name string, role entity.Role, pib *string, verified bool, password string) (*entity.User, error) {
	existing, err := repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		PIB:          pib,
		Verified:     verified,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

func ensureProduct(repo *postgres.ProductRepo, ownerID int64, code, name, material string) (*entity.Product, error) {
	owned, err := repo.ListByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	for _, p := range owned {
		if p.Code == code {
			return p, nil
		}
	}
	p := &entity.Product{
		OwnerUserID:  ownerID,
		Name:         name,
		Code:         code,
		MaterialType: &material,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

func invoiceExists(repo *postgres.InvoiceRepo, issuerID int64, number string) (bool, error) {
	issued, err := repo.ListByIssuer(issuerID)
	if err != nil {
		return false, err
	}
	for _, inv := range issued {
		if inv.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func seedItem(p *entity.Product, qty, unitPrice string, taxRate int64) *entity.InvoiceItem {
	return &entity.InvoiceItem{
		ProductID:    p.ID,
		Name:         p.Name,
		Code:         p.Code,
		MaterialType: p.MaterialType,
		Qty:          decimal.RequireFromString(qty),
		UnitPrice:    decimal.RequireFromString(unitPrice),
		TaxRate:      taxRate,
	}
}
