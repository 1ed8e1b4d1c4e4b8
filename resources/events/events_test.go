package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleSerialization(t *testing.T) {
	rule := Rule{
		EventBusName: "bank-events",
		EventPattern: Pattern("martian-bank.transactions", "transaction.completed"),
		Targets: []Rule_Target{{
			Arn:         "arn:aws:lambda:us-east-1:123456789012:function:UpdateBalance",
			Id:          "Target0",
			RetryPolicy: &Rule_RetryPolicy{MaximumRetryAttempts: 2},
		}},
	}

	assert.Equal(t, "AWS::Events::Rule", rule.ResourceType())

	data, err := json.Marshal(rule)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	pattern := parsed["EventPattern"].(map[string]any)
	assert.Equal(t, []any{"martian-bank.transactions"}, pattern["source"])
	assert.Equal(t, []any{"transaction.completed"}, pattern["detail-type"])

	target := parsed["Targets"].([]any)[0].(map[string]any)
	retry := target["RetryPolicy"].(map[string]any)
	assert.Equal(t, float64(2), retry["MaximumRetryAttempts"])
	assert.NotContains(t, retry, "MaximumEventAgeInSeconds")
}
