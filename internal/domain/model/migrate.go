package model

// AutoMigrate対象（親テーブルが先）
func All() []any {
	return []any{
		&Category{},
		&Product{},
		&ProductImage{},
		&Banner{},
		&Order{},
		&OrderItem{},
		&InventoryAdjustment{},
		&AuditLog{},
	}
}
