package ofx

import (
	"context"
	"strings"
	"testing"

	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>EUR
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240131120000[0:GMT]
<TRNAMT>1500.00
<FITID>2024013101
<NAME>PAYROLL DEPOSIT
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>EUR
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-32.40
<FITID>CC2024012001
<NAME>DEBIT
<MEMO>TRATTORIA DA MARIO
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParse(t *testing.T) {
	tests := []struct {
		name          string
		ofxData       string
		expectedCount int
		expectedError bool
	}{
		{
			name:          "valid bank statement",
			ofxData:       sampleBankOFX,
			expectedCount: 3,
			expectedError: false,
		},
		{
			name:          "valid credit card statement",
			ofxData:       sampleCreditCardOFX,
			expectedCount: 2,
			expectedError: false,
		},
		{
			name:          "invalid OFX data",
			ofxData:       "not valid OFX",
			expectedCount: 0,
			expectedError: true,
		},
		{
			name:          "empty OFX",
			ofxData:       "",
			expectedCount: 0,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser()
			reader := strings.NewReader(tt.ofxData)

			drafts, err := parser.Parse(context.Background(), reader)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, drafts, tt.expectedCount)
			}
		})
	}
}

func TestParseBankDrafts(t *testing.T) {
	parser := NewParser()
	reader := strings.NewReader(sampleBankOFX)

	drafts, err := parser.Parse(context.Background(), reader)
	require.NoError(t, err)
	require.Len(t, drafts, 3)

	// First draft (Starbucks): debit becomes a positive expense amount
	d1 := drafts[0]
	assert.Equal(t, "2024-01-15", d1.Date.String())
	assert.Equal(t, "STARBUCKS STORE #1234", d1.Description)
	assert.Equal(t, 25.50, d1.Amount)
	assert.False(t, d1.Credit)

	// Second draft (Whole Foods)
	d2 := drafts[1]
	assert.Equal(t, "2024-01-20", d2.Date.String())
	assert.Equal(t, "Whole Foods Market", d2.Description)
	assert.Equal(t, 125.00, d2.Amount)
	assert.False(t, d2.Credit)

	// Third draft (payroll deposit): credits are kept but flagged
	d3 := drafts[2]
	assert.Equal(t, "2024-01-31", d3.Date.String())
	assert.Equal(t, "PAYROLL DEPOSIT", d3.Description)
	assert.Equal(t, 1500.00, d3.Amount)
	assert.True(t, d3.Credit)
}

func TestParseCreditCardDrafts(t *testing.T) {
	parser := NewParser()
	reader := strings.NewReader(sampleCreditCardOFX)

	drafts, err := parser.Parse(context.Background(), reader)
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	// Amazon draft
	d1 := drafts[0]
	assert.Equal(t, "2024-01-10", d1.Date.String())
	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", d1.Description)
	assert.Equal(t, 45.99, d1.Amount)
	assert.False(t, d1.Credit)

	// Generic NAME falls back to MEMO
	d2 := drafts[1]
	assert.Equal(t, "2024-01-20", d2.Date.String())
	assert.Equal(t, "TRATTORIA DA MARIO", d2.Description)
	assert.Equal(t, 32.40, d2.Amount)
	assert.False(t, d2.Credit)
}

func TestExtractDescription(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "remove POS prefix",
			input:    "POS PURCHASE STARBUCKS",
			expected: "STARBUCKS",
		},
		{
			name:     "remove DEBIT CARD prefix",
			input:    "DEBIT CARD PURCHASE WHOLE FOODS",
			expected: "WHOLE FOODS",
		},
		{
			name:     "keep clean name",
			input:    "NETFLIX.COM",
			expected: "NETFLIX.COM",
		},
		{
			name:     "trim whitespace",
			input:    "  AMAZON.COM  ",
			expected: "AMAZON.COM",
		},
		{
			name:     "strip leading date",
			input:    "01/15 GROCERY OUTLET",
			expected: "GROCERY OUTLET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := ofxgo.Transaction{
				Name: ofxgo.String(tt.input),
			}
			result := parser.extractDescription(tx)
			assert.Equal(t, tt.expected, result)
		})
	}
}
