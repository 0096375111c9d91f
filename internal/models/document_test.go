package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDocument(t *testing.T) {
	cases := []struct {
		docType DocumentType
		want    DocumentCategory
	}{
		{DocW2, CategoryIncome},
		{DocForm1099Int, CategoryIncome},
		{DocScheduleK1, CategoryIncome},
		{DocForm1098, CategoryDeduction},
		{DocForm1098T, CategoryDeduction},
		{DocIDDocument, CategoryIdentity},
		{DocContract, CategoryLegal},
		{DocBankStatement, CategoryFinancial},
		{DocReceipt, CategoryFinancial},
		{DocIncomeDocuments, CategoryIncome},
		{DocDeductionReceipts, CategoryDeduction},
		{DocPaymentConfirmation, CategoryFinancial},
		{DocPaymentProof, CategoryFinancial},
		{DocFinancialStatements, CategoryFinancial},
		{DocTaxReturnCopy, CategoryOther},
		{DocPreviousNotices, CategoryOther},
		{DocOther, CategoryOther},
		{DocumentType("SOMETHING_ELSE"), CategoryOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyDocument(tc.docType), "%s", tc.docType)
	}
}
