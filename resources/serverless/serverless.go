// Package serverless provides the AWS::Serverless (SAM) resource types a
// materialized domain is made of.
package serverless

// Function is AWS::Serverless::Function.
type Function struct {
	FunctionName string                `json:"FunctionName,omitempty"`
	Description  string                `json:"Description,omitempty"`
	Handler      string                `json:"Handler,omitempty"`
	Runtime      string                `json:"Runtime,omitempty"`
	CodeUri      any                   `json:"CodeUri,omitempty"`
	MemorySize   int                   `json:"MemorySize,omitempty"`
	Timeout      int                   `json:"Timeout,omitempty"`
	Environment  *Function_Environment `json:"Environment,omitempty"`
	Layers       []any                 `json:"Layers,omitempty"`
	VpcConfig    *Function_VpcConfig   `json:"VpcConfig,omitempty"`
	Policies     []any                 `json:"Policies,omitempty"`
	Tags         map[string]string     `json:"Tags,omitempty"`
}

// ResourceType returns "AWS::Serverless::Function".
func (Function) ResourceType() string { return "AWS::Serverless::Function" }

// Function_Environment holds function environment variables.
type Function_Environment struct {
	Variables map[string]any `json:"Variables,omitempty"`
}

// Function_VpcConfig attaches a function to subnets and security groups.
type Function_VpcConfig struct {
	SecurityGroupIds []any `json:"SecurityGroupIds,omitempty"`
	SubnetIds        []any `json:"SubnetIds,omitempty"`
}

// LayerVersion is AWS::Serverless::LayerVersion.
type LayerVersion struct {
	LayerName          string   `json:"LayerName,omitempty"`
	Description        string   `json:"Description,omitempty"`
	ContentUri         any      `json:"ContentUri,omitempty"`
	CompatibleRuntimes []string `json:"CompatibleRuntimes,omitempty"`
	RetentionPolicy    string   `json:"RetentionPolicy,omitempty"`
}

// ResourceType returns "AWS::Serverless::LayerVersion".
func (LayerVersion) ResourceType() string { return "AWS::Serverless::LayerVersion" }

// Api is AWS::Serverless::Api.
type Api struct {
	Name                  string                 `json:"Name,omitempty"`
	Description           string                 `json:"Description,omitempty"`
	StageName             string                 `json:"StageName,omitempty"`
	Cors                  *Api_CorsConfiguration `json:"Cors,omitempty"`
	DefinitionBody        map[string]any         `json:"DefinitionBody,omitempty"`
	EndpointConfiguration string                 `json:"EndpointConfiguration,omitempty"`
}

// ResourceType returns "AWS::Serverless::Api".
func (Api) ResourceType() string { return "AWS::Serverless::Api" }

// Api_CorsConfiguration is the SAM CORS block. Values are quoted header
// literals, e.g. "'*'".
type Api_CorsConfiguration struct {
	AllowOrigin  string `json:"AllowOrigin,omitempty"`
	AllowMethods string `json:"AllowMethods,omitempty"`
	AllowHeaders string `json:"AllowHeaders,omitempty"`
}

// StateMachine is AWS::Serverless::StateMachine.
type StateMachine struct {
	Name                    string         `json:"Name,omitempty"`
	Type                    string         `json:"Type,omitempty"`
	Definition              map[string]any `json:"Definition,omitempty"`
	DefinitionSubstitutions map[string]any `json:"DefinitionSubstitutions,omitempty"`
	Policies                []any          `json:"Policies,omitempty"`
	Tracing                 map[string]any `json:"Tracing,omitempty"`
}

// ResourceType returns "AWS::Serverless::StateMachine".
func (StateMachine) ResourceType() string { return "AWS::Serverless::StateMachine" }

// EventBridgePutEventsPolicy is the SAM policy template granting events:PutEvents on a bus.
func EventBridgePutEventsPolicy(eventBusName any) map[string]any {
	return map[string]any{
		"EventBridgePutEventsPolicy": map[string]any{"EventBusName": eventBusName},
	}
}

// LambdaInvokePolicy is the SAM policy template granting lambda:InvokeFunction.
func LambdaInvokePolicy(functionName any) map[string]any {
	return map[string]any{
		"LambdaInvokePolicy": map[string]any{"FunctionName": functionName},
	}
}
