package services

import "taxpractice/internal/models"

// noticeAnalysis is the canned analysis produced for a notice type. Action
// items become one response task each; EstimatedMinutes spaces their due
// dates out from the moment of analysis.
type noticeAnalysis struct {
	Summary            string
	Explanation        string
	ActionItems        []string
	RiskLevel          models.RiskLevel
	EstimatedMinutes   int
	SuggestedDocuments []models.DocumentType
}

var noticeAnalysisTable = map[string]noticeAnalysis{
	"CP2000": {
		Summary: "Proposed changes to your tax return - underreported income",
		Explanation: "The IRS received information from third parties (employers, banks, brokers) " +
			"that doesn't match the income reported on the tax return. This notice proposes " +
			"additional tax based on the discrepancy.",
		ActionItems: []string{
			"Compare the notice against the filed return",
			"Gather supporting documents for the income in question",
			"Determine whether the IRS figures are correct",
			"Prepare a response agreeing or disagreeing with the proposed changes",
			"Respond by the deadline to avoid default assessment",
		},
		RiskLevel:        models.RiskMedium,
		EstimatedMinutes: 120,
		SuggestedDocuments: []models.DocumentType{
			models.DocW2, models.DocForm1099Int, models.DocForm1099Div,
			models.DocForm1099Misc, models.DocBankStatement,
		},
	},
	"CP14": {
		Summary: "Balance due - unpaid taxes",
		Explanation: "The IRS shows an unpaid balance on the account. This is the first notice " +
			"in the collection sequence; interest and penalties accrue until the balance is resolved.",
		ActionItems: []string{
			"Verify the balance against the filed return and payments made",
			"Check for misapplied or missing payments",
			"Advise the client on payment or installment agreement options",
			"Respond or pay by the due date to stop escalation",
		},
		RiskLevel:        models.RiskHigh,
		EstimatedMinutes: 60,
		SuggestedDocuments: []models.DocumentType{
			models.DocPaymentConfirmation, models.DocBankStatement, models.DocTaxReturnCopy,
		},
	},
	"CP501": {
		Summary: "Reminder - balance still due",
		Explanation: "A prior balance-due notice went unanswered. This reminder precedes more " +
			"aggressive collection steps if the balance remains unpaid.",
		ActionItems: []string{
			"Confirm whether the prior notice was received and handled",
			"Reconcile the balance with the client's records",
			"Set up payment or an installment agreement",
			"Document all contact with the IRS",
		},
		RiskLevel:        models.RiskHigh,
		EstimatedMinutes: 45,
		SuggestedDocuments: []models.DocumentType{
			models.DocPaymentConfirmation, models.DocPreviousNotices, models.DocBankStatement,
		},
	},
	"CP504": {
		Summary: "Final notice - intent to levy",
		Explanation: "This is a final balance-due notice before the IRS may levy state tax refunds " +
			"and pursue further collection action. Immediate response is required.",
		ActionItems: []string{
			"Contact the IRS immediately regarding the balance",
			"Evaluate collection alternatives (installment agreement, offer in compromise)",
			"Consider a collection due process appeal if appropriate",
			"Warn the client about imminent levy action",
		},
		RiskLevel:        models.RiskHigh,
		EstimatedMinutes: 30,
		SuggestedDocuments: []models.DocumentType{
			models.DocFinancialStatements, models.DocPaymentProof, models.DocIncomeDocuments,
		},
	},
}

var defaultNoticeAnalysis = noticeAnalysis{
	Summary: "IRS notice received - Review required",
	Explanation: "This notice type is not in the known catalog. Review the document itself to " +
		"determine what the IRS is requesting and the applicable deadline.",
	ActionItems: []string{
		"Read the full notice and identify the request",
		"Note the response deadline",
		"Gather any referenced documents",
		"Draft a response or contact the IRS for clarification",
	},
	RiskLevel:        models.RiskMedium,
	EstimatedMinutes: 90,
	SuggestedDocuments: []models.DocumentType{
		models.DocTaxReturnCopy, models.DocIncomeDocuments, models.DocDeductionReceipts,
	},
}

// analyzeNoticeType resolves the canned analysis for a notice type, falling
// back to the generic entry for unknown types.
func analyzeNoticeType(noticeType string) noticeAnalysis {
	if a, ok := noticeAnalysisTable[noticeType]; ok {
		return a
	}
	return defaultNoticeAnalysis
}
