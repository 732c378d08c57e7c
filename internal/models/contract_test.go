package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContractRequest_MissingFields(t *testing.T) {
	t.Parallel()

	full := ContractRequest{
		EmployerID:   "42",
		EmployeeName: "Iva Novak",
		ContractType: "neodređeno",
		Position:     "Developer",
		Salary:       "2000",
		StartDate:    "2026-01-01",
	}

	require.Nil(t, full.MissingFields())

	var empty ContractRequest
	require.Equal(t,
		[]string{"employerId", "employeeName", "contractType", "position", "salary", "startDate"},
		empty.MissingFields(),
	)

	noSalary := full
	noSalary.Salary = ""
	require.Equal(t, []string{"salary"}, noSalary.MissingFields())
}
