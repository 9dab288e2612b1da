// Package ofx parses OFX/QFX statement files into expense drafts.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"quid/internal/model"
)

// Draft is one statement transaction awaiting insertion as an expense.
// Credits (deposits, refunds) are parsed but marked so the importer can
// skip them.
type Draft struct {
	Date        model.Date
	Description string
	Amount      float64
	Credit      bool
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, func(match string) string {
		return strings.ToUpper(match)
	})

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// Parse reads an OFX/QFX document and returns one draft per statement
// transaction, bank and credit card statements alike.
func (p *Parser) Parse(ctx context.Context, reader io.Reader) ([]Draft, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	processedContent := p.preprocessOFX(string(content))

	resp, err := ofxgo.ParseResponse(strings.NewReader(processedContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var drafts []Draft
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, ofxTx := range stmt.BankTranList.Transactions {
				drafts = append(drafts, p.convertTransaction(ofxTx))
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, ofxTx := range stmt.BankTranList.Transactions {
				drafts = append(drafts, p.convertTransaction(ofxTx))
			}
		}
	}

	slog.Info("Parsed OFX file",
		"drafts", len(drafts),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return drafts, nil
}

// convertTransaction maps one OFX transaction to a draft.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction) Draft {
	// OFX uses negative amounts for debits
	amountFloat, _ := ofxTx.TrnAmt.Float64()
	credit := amountFloat >= 0
	if amountFloat < 0 {
		amountFloat = -amountFloat
	}

	return Draft{
		Date:        model.DateOf(ofxTx.DtPosted.Time),
		Description: p.extractDescription(ofxTx),
		Amount:      amountFloat,
		Credit:      credit,
	}
}

// extractDescription tries to get a clean description from OFX data.
func (p *Parser) extractDescription(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)

	// Use MEMO field if NAME is generic
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	// Remove common processor prefixes
	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}

	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Clean up date patterns like "MM/DD" at the beginning
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}
