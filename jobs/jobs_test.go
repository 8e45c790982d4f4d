// SPDX-License-Identifier: ice License 1.0

package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidContractType(t *testing.T) {
	t.Parallel()
	for _, valid := range []string{ContractCDI, ContractCDD, ContractStage, ContractInterim} {
		assert.True(t, validContractType(valid), valid)
	}
	assert.False(t, validContractType("freelance"))
	assert.False(t, validContractType(""))
}

func TestBuildListWhere(t *testing.T) {
	t.Parallel()
	where, args := buildListWhere(&ListFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = buildListWhere(&ListFilter{ActiveOnly: true, Wilaya: "Oran", ContractType: ContractCDI})
	assert.Equal(t, "WHERE is_active = TRUE AND wilaya = $1 AND contract_type = $2", where)
	assert.Equal(t, []any{"Oran", ContractCDI}, args)

	where, args = buildListWhere(&ListFilter{ActiveOnly: true})
	assert.Equal(t, "WHERE is_active = TRUE", where)
	assert.Empty(t, args)
}
