package serverless

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wetwire "github.com/lex00/wetwire-domains-go"
)

// TestResourceTypes verifies the SAM resource types return correct CloudFormation types.
func TestResourceTypes(t *testing.T) {
	tests := []struct {
		name     string
		resource wetwire.Resource
		expected string
	}{
		{"Function", Function{}, "AWS::Serverless::Function"},
		{"Api", Api{}, "AWS::Serverless::Api"},
		{"LayerVersion", LayerVersion{}, "AWS::Serverless::LayerVersion"},
		{"StateMachine", StateMachine{}, "AWS::Serverless::StateMachine"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.resource.ResourceType())
		})
	}
}

// TestFunctionSerialization tests that Function serializes to valid JSON.
func TestFunctionSerialization(t *testing.T) {
	fn := Function{
		Handler:    "create_account.handler",
		Runtime:    "python3.12",
		MemorySize: 256,
		Timeout:    30,
		CodeUri:    "domains/accounts/application/handlers",
		Environment: &Function_Environment{
			Variables: map[string]any{
				"DB_URL": "mongodb://db.internal:27017",
			},
		},
	}

	data, err := json.Marshal(fn)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, "create_account.handler", parsed["Handler"])
	assert.Equal(t, "python3.12", parsed["Runtime"])
	assert.Equal(t, float64(256), parsed["MemorySize"])
	assert.Equal(t, float64(30), parsed["Timeout"])
	assert.NotContains(t, parsed, "VpcConfig")
	assert.NotContains(t, parsed, "Layers")

	env := parsed["Environment"].(map[string]any)
	vars := env["Variables"].(map[string]any)
	assert.Equal(t, "mongodb://db.internal:27017", vars["DB_URL"])
}

// TestApiSerialization tests that Api serializes to valid JSON.
func TestApiSerialization(t *testing.T) {
	api := Api{
		Name:      "AccountsApi",
		StageName: "prod",
		Cors: &Api_CorsConfiguration{
			AllowOrigin:  "'*'",
			AllowMethods: "'*'",
		},
	}

	data, err := json.Marshal(api)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, "prod", parsed["StageName"])
	cors := parsed["Cors"].(map[string]any)
	assert.Equal(t, "'*'", cors["AllowOrigin"])
	assert.NotContains(t, cors, "AllowHeaders")
}

// TestLayerVersionSerialization tests that LayerVersion serializes to valid JSON.
func TestLayerVersionSerialization(t *testing.T) {
	layer := LayerVersion{
		LayerName:          "events",
		ContentUri:         "lib/layers/python",
		CompatibleRuntimes: []string{"python3.12"},
	}

	data, err := json.Marshal(layer)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, "events", parsed["LayerName"])
	assert.Equal(t, "lib/layers/python", parsed["ContentUri"])
	assert.Equal(t, []any{"python3.12"}, parsed["CompatibleRuntimes"])
}

// TestStateMachineSerialization tests that StateMachine serializes to valid JSON.
func TestStateMachineSerialization(t *testing.T) {
	sm := StateMachine{
		Name: "LoanProcessing",
		Type: "EXPRESS",
		Policies: []any{
			LambdaInvokePolicy("GetAccountStepFunction"),
		},
	}

	data, err := json.Marshal(sm)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, "LoanProcessing", parsed["Name"])
	assert.Equal(t, "EXPRESS", parsed["Type"])
	policy := parsed["Policies"].([]any)[0].(map[string]any)
	assert.Contains(t, policy, "LambdaInvokePolicy")
}

func TestEventBridgePutEventsPolicy(t *testing.T) {
	data, err := json.Marshal(EventBridgePutEventsPolicy("bank-events"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"EventBridgePutEventsPolicy": {"EventBusName": "bank-events"}}`, string(data))
}

// TestPropertyTypes tests that nested property types work correctly.
func TestPropertyTypes(t *testing.T) {
	t.Run("Function_VpcConfig", func(t *testing.T) {
		vpc := Function_VpcConfig{
			SecurityGroupIds: []any{"sg-12345", "sg-67890"},
			SubnetIds:        []any{"subnet-abc", "subnet-def"},
		}

		data, err := json.Marshal(vpc)
		require.NoError(t, err)

		var parsed map[string]any
		require.NoError(t, json.Unmarshal(data, &parsed))

		secGroups := parsed["SecurityGroupIds"].([]any)
		assert.Len(t, secGroups, 2)
		assert.Equal(t, "sg-12345", secGroups[0])
	})
}
