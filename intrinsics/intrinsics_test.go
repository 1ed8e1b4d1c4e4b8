package intrinsics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefTo_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(RefTo("AccountsApi"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Ref": "AccountsApi"}`, string(data))
}

func TestArnOf_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(ArnOf("AccountsCreateAccountFunction"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Fn::GetAtt": ["AccountsCreateAccountFunction", "Arn"]}`, string(data))
}

func TestSub_MarshalJSON(t *testing.T) {
	sub := SubWithMap{
		String:    `{"stateMachineArn": "${StateMachineArn}"}`,
		Variables: map[string]any{"StateMachineArn": RefTo("LoansLoanProcessingStateMachine")},
	}
	data, err := json.Marshal(sub)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Fn::Sub"`)
	assert.Contains(t, string(data), `"StateMachineArn":{"Ref":"LoansLoanProcessingStateMachine"}`)
}

func TestJoin_MarshalJSON(t *testing.T) {
	join := Join{Delimiter: ".", Values: []any{"martian-bank", "accounts"}}
	data, err := json.Marshal(join)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Fn::Join": [".", ["martian-bank", "accounts"]]}`, string(data))
}

func TestAssumeRolePolicy(t *testing.T) {
	data, err := json.Marshal(AssumeRolePolicy("apigateway.amazonaws.com"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"Service": "apigateway.amazonaws.com"},
			"Action": ["sts:AssumeRole"]
		}]
	}`, string(data))
}

func TestServicePrincipal_Multiple(t *testing.T) {
	data, err := json.Marshal(ServicePrincipal{"states.amazonaws.com", "lambda.amazonaws.com"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Service": ["states.amazonaws.com", "lambda.amazonaws.com"]}`, string(data))
}

func TestPseudoParameters(t *testing.T) {
	tests := []struct {
		name     string
		param    Ref
		expected string
	}{
		{"AWS_REGION", AWS_REGION, `{"Ref": "AWS::Region"}`},
		{"AWS_ACCOUNT_ID", AWS_ACCOUNT_ID, `{"Ref": "AWS::AccountId"}`},
		{"AWS_URL_SUFFIX", AWS_URL_SUFFIX, `{"Ref": "AWS::URLSuffix"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.param)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}
