package config

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/iwvelando/loan-ledger/pkg/datetime"
	"github.com/iwvelando/loan-ledger/pkg/model"
)

// Portfolio is the configuration converted into engine collections. Extra
// payment rules are keyed by loan id since they feed projections only, never
// the historical ledger.
type Portfolio struct {
	Loans    []model.Loan
	Payments []model.Payment
	Draws    []model.Draw
	Rules    map[uuid.UUID][]model.ExtraPaymentRule
}

// ToPortfolio converts the loaded configuration into engine model
// collections, minting stable ids for every entity.
func (conf *Configuration) ToPortfolio() (*Portfolio, error) {
	portfolio := &Portfolio{
		Rules: make(map[uuid.UUID][]model.ExtraPaymentRule),
	}

	for i := range conf.Loans {
		lc := &conf.Loans[i]

		loanType, err := model.ParseLoanType(lc.Type)
		if err != nil {
			return nil, fmt.Errorf("loan %s: %w", lc.Name, err)
		}
		frequency, err := model.ParseFrequency(lc.Frequency)
		if err != nil {
			return nil, fmt.Errorf("loan %s: %w", lc.Name, err)
		}
		origination, err := datetime.ParseDate(lc.OriginationDate)
		if err != nil {
			return nil, fmt.Errorf("loan %s: %w", lc.Name, err)
		}
		nextPayment, err := datetime.ParseDate(lc.NextPaymentDate)
		if err != nil {
			return nil, fmt.Errorf("loan %s: %w", lc.Name, err)
		}

		loan := model.Loan{
			ID:                uuid.New(),
			Name:              lc.Name,
			OriginalPrincipal: lc.Principal,
			APR:               lc.APR,
			TermMonths:        lc.TermMonths,
			PaymentFrequency:  frequency,
			Type:              loanType,
			OriginationDate:   origination,
			NextPaymentDate:   nextPayment,
			GraceDays:         lc.GraceDays,
			EscrowMonthly:     lc.EscrowMonthly,
		}
		portfolio.Loans = append(portfolio.Loans, loan)

		for j := range lc.Payments {
			pc := &lc.Payments[j]
			paymentDate, err := datetime.ParseDate(pc.Date)
			if err != nil {
				return nil, fmt.Errorf("loan %s payment %d: %w", lc.Name, j, err)
			}
			portfolio.Payments = append(portfolio.Payments, model.Payment{
				ID:            uuid.New(),
				LoanRef:       loan.ID,
				PaymentDate:   paymentDate,
				Amount:        pc.Amount,
				PrincipalOnly: pc.PrincipalOnly,
			})
		}

		for j := range lc.Draws {
			dc := &lc.Draws[j]
			drawDate, err := datetime.ParseDate(dc.Date)
			if err != nil {
				return nil, fmt.Errorf("loan %s draw %d: %w", lc.Name, j, err)
			}
			portfolio.Draws = append(portfolio.Draws, model.Draw{
				ID:       uuid.New(),
				LoanRef:  loan.ID,
				DrawDate: drawDate,
				Amount:   dc.Amount,
			})
		}

		for j := range lc.ExtraPayments {
			ec := &lc.ExtraPayments[j]
			every, err := model.ParseRecurrence(ec.Every)
			if err != nil {
				return nil, fmt.Errorf("loan %s extra payment %d: %w", lc.Name, j, err)
			}
			start, err := datetime.ParseDate(ec.Start)
			if err != nil {
				return nil, fmt.Errorf("loan %s extra payment %d: %w", lc.Name, j, err)
			}
			portfolio.Rules[loan.ID] = append(portfolio.Rules[loan.ID], model.ExtraPaymentRule{
				Amount: ec.Amount,
				Every:  every,
				Start:  start,
			})
		}
	}

	return portfolio, nil
}
