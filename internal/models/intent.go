package models

// IntentKind is the classified purpose of one user message.
type IntentKind string

// The fixed intent enumeration. Resolvers must return exactly one of these.
const (
	IntentAddTransaction  IntentKind = "add_transaction"
	IntentQuerySummary    IntentKind = "query_summary"
	IntentQueryList       IntentKind = "query_list"
	IntentSetLanguage     IntentKind = "set_language"
	IntentSetCurrency     IntentKind = "set_currency"
	IntentDeleteRequest   IntentKind = "delete_account_request"
	IntentDeleteConfirmed IntentKind = "delete_account_confirmed"
	IntentClarification   IntentKind = "clarification_needed"
	IntentSmallTalk       IntentKind = "small_talk"
	IntentUnknown         IntentKind = "unknown"
)

// IntentResult is the ephemeral output of intent resolution. The populated
// fields depend on Kind; everything else stays zero.
type IntentResult struct {
	Kind IntentKind

	// Draft is set for IntentAddTransaction. Kind or Currency may still be
	// empty; the controller turns those holes into pending clarifications.
	Draft *TxDraft

	// Period is set for IntentQuerySummary and IntentQueryList; nil means
	// the handler default (last 7 days).
	Period *Period

	// Category optionally filters summaries.
	Category string

	// Language is set for IntentSetLanguage.
	Language string

	// Currency is set for IntentSetCurrency.
	Currency string

	// Question is the single clarification question for IntentClarification,
	// or a generic one for IntentUnknown when the resolver has something to ask.
	Question string
}
