package models

// DocumentSequenceModel holds the last number issued for a document prefix
// such as "WO-2026".
type DocumentSequenceModel struct {
	Prefix string `gorm:"type:varchar(50);primaryKey"`
	Value  int64  `gorm:"not null;default:0"`
}

func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}

// All returns every model managed by the schema, in dependency order.
func All() []any {
	return []any{
		&UserModel{},
		&SlotModel{},
		&WorkOrderModel{},
		&WorkOrderItemModel{},
		&ReleaseOrderModel{},
		&ReleaseOrderItemModel{},
		&InvoiceModel{},
		&DeploymentModel{},
		&NotificationModel{},
		&OutboxEntryModel{},
		&DocumentSequenceModel{},
	}
}
