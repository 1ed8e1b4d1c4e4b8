package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/wetwire-domains-go/intrinsics"
	"github.com/lex00/wetwire-domains-go/resources/events"
	"github.com/lex00/wetwire-domains-go/resources/serverless"
)

func TestResource_Function(t *testing.T) {
	fn := &serverless.Function{
		Handler:    "create_account.handler",
		Runtime:    "python3.12",
		MemorySize: 256,
		Environment: &serverless.Function_Environment{
			Variables: map[string]any{"DB_URL": "mongodb://db:27017"},
		},
		VpcConfig: &serverless.Function_VpcConfig{
			SubnetIds: []any{"subnet-a", "subnet-b"},
		},
	}

	props, err := Resource(fn)
	require.NoError(t, err)

	assert.Equal(t, "create_account.handler", props["Handler"])
	assert.Equal(t, int64(256), props["MemorySize"])
	assert.NotContains(t, props, "Timeout")
	assert.NotContains(t, props, "Layers")
	assert.NotContains(t, props, "CodeUri")

	env := props["Environment"].(map[string]any)
	vars := env["Variables"].(map[string]any)
	assert.Equal(t, "mongodb://db:27017", vars["DB_URL"])

	vpc := props["VpcConfig"].(map[string]any)
	assert.Equal(t, []any{"subnet-a", "subnet-b"}, vpc["SubnetIds"])
	assert.NotContains(t, vpc, "SecurityGroupIds")
}

func TestResource_Intrinsics(t *testing.T) {
	fn := &serverless.Function{
		Layers: []any{intrinsics.RefTo("AccountsLayer1")},
	}

	props, err := Resource(fn)
	require.NoError(t, err)

	layers := props["Layers"].([]any)
	assert.Equal(t, map[string]any{"Ref": "AccountsLayer1"}, layers[0])
}

func TestResource_KeepsZeroWithoutOmitEmpty(t *testing.T) {
	rule := events.Rule{
		Targets: []events.Rule_Target{{
			Arn:         intrinsics.ArnOf("Fn"),
			Id:          "Target",
			RetryPolicy: &events.Rule_RetryPolicy{MaximumRetryAttempts: 0},
		}},
	}

	props, err := Resource(rule)
	require.NoError(t, err)

	target := props["Targets"].([]any)[0].(map[string]any)
	retry := target["RetryPolicy"].(map[string]any)
	assert.Equal(t, int64(0), retry["MaximumRetryAttempts"])
	assert.NotContains(t, retry, "MaximumEventAgeInSeconds")
}

func TestResource_OmitsZeroValues(t *testing.T) {
	props, err := Resource(serverless.LayerVersion{})
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestResource_NonStruct(t *testing.T) {
	props, err := Resource("not a resource")
	require.NoError(t, err)
	assert.Nil(t, props)

	var fn *serverless.Function
	props, err = Resource(fn)
	require.NoError(t, err)
	assert.Nil(t, props)
}

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"get_account", "GetAccount"},
		{"accounts", "Accounts"},
		{"CreateAccount", "CreateAccount"},
		{"martian_bank", "MartianBank"},
		{"loan__processing", "LoanProcessing"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToPascalCase(tt.input))
		})
	}
}
