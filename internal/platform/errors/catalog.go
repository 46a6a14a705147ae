package errors

import (
	"bytes"
	stderrors "errors"
	"text/template"
)

// messages maps error codes to user-facing en-US message templates.
// Templates may reference metadata keys, e.g. {{.amount}}.
var messages = map[Code]string{
	CodeTransactionAmountInvalid:   "Transaction amount must be a whole number of at least zero.",
	CodeTransactionTypeInvalid:     "Unknown transaction type {{.type}}.",
	CodeTransactionCategoryInvalid: "Unknown activity category {{.category}}.",
	CodeTransactionEmptyAccountID:  "An account must be selected for the transaction.",
	CodeAccountEmptyName:           "The account needs a name.",
	CodeAccountInvalidRole:         "Unknown account role {{.role}}.",
	CodeAccountEmptyFamily:         "The account must belong to a family.",
	CodePermissionDenied:           "You are not allowed to act on this account.",
	CodeNotFound:                   "The requested record was not found.",
	CodeConflict:                   "The update raced with another change; try again.",
	CodeUpstreamUnavailable:        "A backing service is unavailable.",
	CodeConfigInvalidRate:          "Interest rate must be a percentage of at least zero.",
	CodeConfigInvalidDuration:      "Interest duration must be at least one day.",
	CodeQuestionPoolInvalid:        "The verification question pool is malformed.",
	CodeVerificationIndexInvalid:   "Question index {{.index}} is not part of this quiz.",
	CodeUnknown:                    "An unexpected error occurred.",
}

// UserMessage renders the user-facing message for an error, templated with
// the error's metadata. Falls back to the code string when no template
// exists, and to the raw template when rendering fails.
func UserMessage(err error) string {
	code := GetCode(err)
	tmplText, ok := messages[code]
	if !ok {
		return string(code)
	}

	var e *Error
	if !stderrors.As(err, &e) || len(e.Metadata) == 0 {
		// Execute anyway so placeholders render as empty consistently.
		return render(tmplText, nil)
	}
	return render(tmplText, e.Metadata)
}

func render(tmplText string, metadata map[string]string) string {
	tmpl, err := template.New("message").Parse(tmplText)
	if err != nil {
		return tmplText
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, metadata); err != nil {
		return tmplText
	}
	return buf.String()
}
