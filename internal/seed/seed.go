// Package seed holds the canned dataset used by the in-memory store and the
// seed command. IDs are assigned by whichever store loads the data.
package seed

import (
	"fmt"
	"time"

	"admin-panel-api/internal/domain/product"
	"admin-panel-api/internal/domain/user"
	"admin-panel-api/pkg/auth"
)

// Development sign-in for the seeded admin account.
const (
	DevAdminEmail    = "admin@example.com"
	DevAdminPassword = "admin-dev-password"
)

var seedTime = time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

// Products returns the canned product catalog.
func Products() []product.Product {
	items := []product.Product{
		{SKU: "KB-MECH-87", Name: "Tenkeyless Mechanical Keyboard", Description: "87-key hot-swappable board with PBT keycaps.", PriceCents: 12900, Stock: 42, Status: product.StatusActive},
		{SKU: "MS-WL-PRO", Name: "Wireless Pro Mouse", Description: "Lightweight wireless mouse, 8k polling.", PriceCents: 8900, Stock: 120, Status: product.StatusActive},
		{SKU: "MON-27-4K", Name: "27\" 4K Monitor", Description: "IPS panel, USB-C with 90W power delivery.", PriceCents: 44900, Stock: 18, Status: product.StatusActive},
		{SKU: "DESK-STD-1", Name: "Standing Desk Frame", Description: "Dual-motor frame, 120kg load.", PriceCents: 32900, Stock: 7, Status: product.StatusActive},
		{SKU: "CHAIR-ERG-2", Name: "Ergonomic Task Chair", Description: "Mesh back, adjustable lumbar support.", PriceCents: 54900, Stock: 11, Status: product.StatusActive},
		{SKU: "HUB-USBC-8", Name: "8-in-1 USB-C Hub", Description: "HDMI, gigabit ethernet, SD, 100W passthrough.", PriceCents: 6900, Stock: 230, Status: product.StatusActive},
		{SKU: "CAM-WEB-4K", Name: "4K Webcam", Description: "Autofocus webcam with privacy shutter.", PriceCents: 14900, Stock: 64, Status: product.StatusActive},
		{SKU: "MIC-COND-1", Name: "Condenser USB Microphone", Description: "Cardioid condenser mic with gain dial.", PriceCents: 9900, Stock: 0, Status: product.StatusActive},
		{SKU: "LAMP-LED-3", Name: "LED Desk Lamp", Description: "Color temperature from 2700K to 6500K.", PriceCents: 3900, Stock: 85, Status: product.StatusDraft},
		{SKU: "DOCK-TB4-1", Name: "Thunderbolt 4 Dock", Description: "Triple display dock, 11 ports.", PriceCents: 27900, Stock: 9, Status: product.StatusDraft},
		{SKU: "KB-MECH-61", Name: "60% Mechanical Keyboard", Description: "Compact 61-key layout, discontinued colorway.", PriceCents: 9900, Stock: 3, Status: product.StatusArchived},
		{SKU: "MON-24-FHD", Name: "24\" FHD Monitor", Description: "Budget 1080p office panel.", PriceCents: 11900, Stock: 0, Status: product.StatusArchived},
	}

	for i := range items {
		items[i].CreatedAt = seedTime.Add(time.Duration(i) * time.Hour)
		items[i].UpdatedAt = items[i].CreatedAt
	}
	return items
}

// Users returns the canned user accounts. Password hashes are computed at
// load time; only accounts expected to sign in carry one.
func Users() ([]user.User, error) {
	adminHash, err := auth.HashPassword(DevAdminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash seed admin password: %w", err)
	}
	editorHash, err := auth.HashPassword("editor-dev-password")
	if err != nil {
		return nil, fmt.Errorf("hash seed editor password: %w", err)
	}

	items := []user.User{
		{Name: "Avery Admin", Email: DevAdminEmail, Role: user.RoleAdmin, Status: user.StatusActive, PasswordHash: adminHash},
		{Name: "Morgan Eden", Email: "morgan.eden@example.com", Role: user.RoleEditor, Status: user.StatusActive, PasswordHash: editorHash},
		{Name: "Riley Chen", Email: "riley.chen@example.com", Role: user.RoleEditor, Status: user.StatusInvited},
		{Name: "Jordan Blake", Email: "jordan.blake@example.com", Role: user.RoleViewer, Status: user.StatusActive},
		{Name: "Casey Nguyen", Email: "casey.nguyen@example.com", Role: user.RoleViewer, Status: user.StatusActive},
		{Name: "Devon Park", Email: "devon.park@example.com", Role: user.RoleViewer, Status: user.StatusInvited},
		{Name: "Sam Okafor", Email: "sam.okafor@example.com", Role: user.RoleViewer, Status: user.StatusInvited},
		{Name: "Harper Reyes", Email: "harper.reyes@example.com", Role: user.RoleViewer, Status: user.StatusSuspended},
		{Name: "Quinn Silva", Email: "quinn.silva@example.com", Role: user.RoleViewer, Status: user.StatusSuspended},
	}

	for i := range items {
		items[i].CreatedAt = seedTime.Add(time.Duration(i) * time.Hour)
		items[i].UpdatedAt = items[i].CreatedAt
	}
	return items, nil
}
