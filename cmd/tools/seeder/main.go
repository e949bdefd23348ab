package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/pos-toko/internal/config"
	"github.com/noah-isme/pos-toko/internal/store"
)

// Seeds a fresh terminal database with a small grocery catalog so the UI has
// something to sell on first boot.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open store at %s: %v", cfg.DatabasePath, err)
	}
	defer st.Close()

	suppliers := []store.Supplier{
		{ID: uuid.NewString(), Name: "PT Sumber Pangan Nusantara", Contact: "+62 812 3456 7890"},
		{ID: uuid.NewString(), Name: "CV Berkah Tani", Contact: "+62 813 9876 5432"},
	}
	log.Println("seeding suppliers...")
	for _, s := range suppliers {
		if err := st.CreateSupplier(ctx, s); err != nil {
			log.Fatalf("seed supplier %s: %v", s.Name, err)
		}
	}

	products := []store.Product{
		{Name: "Beras Premium 5kg", Price: 50000, Stock: 40, Category: "Sembako", SupplierID: suppliers[0].ID},
		{Name: "Gula Pasir 1kg", Price: 15000, Stock: 60, Category: "Sembako", SupplierID: suppliers[0].ID},
		{Name: "Minyak Goreng 1L", Price: 18000, Stock: 35, Category: "Sembako", SupplierID: suppliers[0].ID},
		{Name: "Telur Ayam 1kg", Price: 28000, Stock: 25, Category: "Segar", SupplierID: suppliers[1].ID},
		{Name: "Tepung Terigu 1kg", Price: 12000, Stock: 30, Category: "Sembako", SupplierID: suppliers[0].ID},
		{Name: "Kopi Bubuk 200g", Price: 22000, Stock: 20, Category: "Minuman", SupplierID: suppliers[1].ID},
		{Name: "Teh Celup 25pcs", Price: 9500, Stock: 45, Category: "Minuman", SupplierID: suppliers[1].ID},
		{Name: "Susu Kental Manis", Price: 11000, Stock: 50, Category: "Minuman", SupplierID: suppliers[0].ID},
		{Name: "Mie Instan Goreng", Price: 3500, Stock: 120, Category: "Instan", SupplierID: suppliers[0].ID},
		{Name: "Sabun Mandi Batang", Price: 4500, Stock: 70, Category: "Kebersihan", SupplierID: suppliers[1].ID},
	}
	log.Println("seeding products...")
	for _, p := range products {
		p.ID = uuid.NewString()
		p.LowStockThreshold = 10
		if err := st.CreateProduct(ctx, p); err != nil {
			log.Fatalf("seed product %s: %v", p.Name, err)
		}
		if p.Category != "" {
			if err := st.CreateCategory(ctx, p.Category); err != nil {
				log.Fatalf("seed category %s: %v", p.Category, err)
			}
		}
	}

	log.Printf("seeding completed: %d suppliers, %d products", len(suppliers), len(products))
}
