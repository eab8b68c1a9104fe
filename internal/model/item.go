package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ItemStatus string

const (
	ItemStatusPending     ItemStatus = "PENDENTE"
	ItemStatusProvisioned ItemStatus = "PROVISIONADO"
	ItemStatusApproved    ItemStatus = "APROVADO"
	ItemStatusPaid        ItemStatus = "PAGO"
)

// DateLayout is the date-only format used for every calendar date of an item.
const DateLayout = "2006-01-02"

type Attachment struct {
	Name       string    `json:"name" validate:"required"`
	Size       int64     `json:"size" validate:"gte=0"`
	FileID     string    `json:"file_id" validate:"required,uuid"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ItemData holds the user-editable portion of an item together with the
// derived monetary fields.
type ItemData struct {
	Vessel            string `json:"vessel" gorm:"column:vessel"`
	Service           string `json:"service" gorm:"column:service"`
	DocumentNumber    string `json:"document_number" gorm:"column:document_number"`
	InvoiceNumber     string `json:"invoice_number" gorm:"column:invoice_number"`
	CostCenter        string `json:"cost_center" gorm:"column:cost_center"`
	IssueDate         string `json:"issue_date" gorm:"column:issue_date"`
	DueDate           string `json:"due_date" gorm:"column:due_date"`
	Counterparty      string `json:"counterparty" gorm:"column:counterparty"`
	CounterpartyTaxID string `json:"counterparty_tax_id" gorm:"column:counterparty_tax_id"`
	Bank              string `json:"bank" gorm:"column:bank"`
	BankCode          string `json:"bank_code" gorm:"column:bank_code"`
	Branch            string `json:"branch" gorm:"column:branch"`
	Account           string `json:"account" gorm:"column:account"`
	PixKey            string `json:"pix_key" gorm:"column:pix_key"`

	GrossAmount decimal.Decimal `json:"gross_amount" gorm:"column:gross_amount;type:numeric(18,2)"`
	BaseAmount  decimal.Decimal `json:"base_amount" gorm:"column:base_amount;type:numeric(18,2)"`
	PIS         decimal.Decimal `json:"pis" gorm:"column:pis;type:numeric(18,2)"`
	COFINS      decimal.Decimal `json:"cofins" gorm:"column:cofins;type:numeric(18,2)"`
	CSLL        decimal.Decimal `json:"csll" gorm:"column:csll;type:numeric(18,2)"`
	GuidePCC    decimal.Decimal `json:"guide_pcc" gorm:"column:guide_pcc;type:numeric(18,2)"`
	IRRF        decimal.Decimal `json:"irrf" gorm:"column:irrf;type:numeric(18,2)"`
	GuideIR     decimal.Decimal `json:"guide_ir" gorm:"column:guide_ir;type:numeric(18,2)"`
	INSS        decimal.Decimal `json:"inss" gorm:"column:inss;type:numeric(18,2)"`
	ISS         decimal.Decimal `json:"iss" gorm:"column:iss;type:numeric(18,2)"`
	RetainedTax decimal.Decimal `json:"retained_tax" gorm:"column:retained_tax;type:numeric(18,2)"`
	NetAmount   decimal.Decimal `json:"net_amount" gorm:"column:net_amount;type:numeric(18,2)"`
	Penalty     decimal.Decimal `json:"penalty" gorm:"column:penalty;type:numeric(18,2)"`
	Interest    decimal.Decimal `json:"interest" gorm:"column:interest;type:numeric(18,2)"`
	Total       decimal.Decimal `json:"total" gorm:"column:total;type:numeric(18,2)"`
}

type Item struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FDAID uuid.UUID `json:"fda_id" gorm:"column:fda_id;type:uuid"`

	ItemData `gorm:"embedded"`

	Status        ItemStatus `json:"status" gorm:"column:status"`
	ProvisionedOn string     `json:"provisioned_on,omitempty" gorm:"column:provisioned_on"`
	ApprovedOn    string     `json:"approved_on,omitempty" gorm:"column:approved_on"`
	PaidOn        string     `json:"paid_on,omitempty" gorm:"column:paid_on"`

	InvoiceAttachments datatypes.JSONSlice[Attachment] `json:"invoice_attachments" gorm:"column:invoice_attachments"`
	BoletoAttachments  datatypes.JSONSlice[Attachment] `json:"boleto_attachments" gorm:"column:boleto_attachments"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Item) TableName() string { return "items" }

// ItemWithFDA is an item annotated with the reference number of its FDA.
type ItemWithFDA struct {
	Item
	FDANumber string `json:"fda_number"`
}
