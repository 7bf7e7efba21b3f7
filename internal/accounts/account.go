package accounts

import (
	"strings"

	"github.com/safari-erp/safari/internal/code"
	"github.com/safari-erp/safari/internal/model"
)

// New builds an Account from its code, deriving everything the code
// determines: the padded code itself, the nature (first segment "1" is
// Entrada, anything else Saída) and whether it accepts postings.
func New(rawCode, description string) model.Account {
	c := code.Parse(rawCode)
	nature := model.NatureOutflow
	if c.Inflow() {
		nature = model.NatureInflow
	}
	return model.Account{
		Code:            c.String(),
		Description:     strings.TrimSpace(description),
		Nature:          nature,
		AcceptsPostings: !c.Synthetic(),
	}
}
