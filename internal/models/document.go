package models

import "time"

// DocumentCategory groups document types for retrieval.
type DocumentCategory string

const (
	CategoryIncome    DocumentCategory = "INCOME"
	CategoryDeduction DocumentCategory = "DEDUCTION"
	CategoryIdentity  DocumentCategory = "IDENTITY"
	CategoryLegal     DocumentCategory = "LEGAL"
	CategoryFinancial DocumentCategory = "FINANCIAL"
	CategoryOther     DocumentCategory = "OTHER"
)

// DocumentType identifies the kind of tax document uploaded.
type DocumentType string

const (
	DocW2            DocumentType = "W2"
	DocW2G           DocumentType = "W2G"
	DocForm1099Int   DocumentType = "FORM_1099_INT"
	DocForm1099Div   DocumentType = "FORM_1099_DIV"
	DocForm1099B     DocumentType = "FORM_1099_B"
	DocForm1099Misc  DocumentType = "FORM_1099_MISC"
	DocForm1099Nec   DocumentType = "FORM_1099_NE"
	DocForm1099R     DocumentType = "FORM_1099_R"
	DocScheduleK1    DocumentType = "FORM_1099_K1"
	DocForm1098      DocumentType = "FORM_1098"
	DocForm1098T     DocumentType = "FORM_1098_T"
	DocForm1098E     DocumentType = "FORM_1098_E"
	DocIDDocument    DocumentType = "ID_DOCUMENT"
	DocContract      DocumentType = "CONTRACT"
	DocBankStatement DocumentType = "BANK_STATEMENT"
	DocInvoice       DocumentType = "INVOICE"
	DocReceipt       DocumentType = "RECEIPT"

	// Broader categories referenced by the notice-analysis catalog.
	DocTaxReturnCopy       DocumentType = "TAX_RETURN"
	DocIncomeDocuments     DocumentType = "INCOME_DOCUMENTS"
	DocDeductionReceipts   DocumentType = "DEDUCTION_RECEIPTS"
	DocPaymentConfirmation DocumentType = "PAYMENT_CONFIRMATION"
	DocPaymentProof        DocumentType = "PAYMENT_PROOF"
	DocPreviousNotices     DocumentType = "PREVIOUS_NOTICES"
	DocFinancialStatements DocumentType = "FINANCIAL_STATEMENTS"

	DocOther DocumentType = "OTHER"
)

// ClassifyDocument maps a document type to its storage category.
func ClassifyDocument(t DocumentType) DocumentCategory {
	switch t {
	case DocW2, DocW2G, DocForm1099Int, DocForm1099Div, DocForm1099B,
		DocForm1099Misc, DocForm1099Nec, DocForm1099R, DocScheduleK1,
		DocIncomeDocuments:
		return CategoryIncome
	case DocForm1098, DocForm1098T, DocForm1098E, DocDeductionReceipts:
		return CategoryDeduction
	case DocIDDocument:
		return CategoryIdentity
	case DocContract:
		return CategoryLegal
	case DocBankStatement, DocInvoice, DocReceipt,
		DocPaymentConfirmation, DocPaymentProof, DocFinancialStatements:
		return CategoryFinancial
	default:
		return CategoryOther
	}
}

// Document is an uploaded file attached to a client or engagement. FileURL is
// the server-local path under the configured files root.
type Document struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	OriginalName string           `json:"original_name"`
	Type         DocumentType     `json:"type"`
	Category     DocumentCategory `json:"category"`
	TaxYear      *int             `json:"tax_year,omitempty"`
	UploadedByID string           `json:"uploaded_by_id"`
	ClientID     *string          `json:"client_id,omitempty"`
	EngagementID *string          `json:"engagement_id,omitempty"`
	FileURL      string           `json:"file_url"`
	FileSize     int64            `json:"file_size"`
	MimeType     string           `json:"mime_type,omitempty"`
	IsVerified   bool             `json:"is_verified"`
	Version      int              `json:"version"`
	CreatedAt    time.Time        `json:"created_at"`
}

// DocumentFilter defines the available parameters for listing documents.
type DocumentFilter struct {
	ClientID     *string
	EngagementID *string
	Type         *DocumentType
	Category     *DocumentCategory
	TaxYear      *int
	Search       string
}

// DocumentPage is the pagination envelope for document listings.
type DocumentPage struct {
	Documents  []Document `json:"documents"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}
