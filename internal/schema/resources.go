package schema

var resourceSchemas = map[string]ResourceSchema{
	"AWS::Serverless::Function": {
		Required: []string{"Handler", "Runtime", "CodeUri"},
		Properties: map[string]PropertySchema{
			"FunctionName": {Type: "String"},
			"Description":  {Type: "String"},
			"Handler":      {Type: "String"},
			"Runtime":      {Type: "String"},
			"CodeUri":      {Type: "Json"},
			"MemorySize":   {Type: "Integer", Min: 128, Max: 10240},
			"Timeout":      {Type: "Integer", Min: 1, Max: 900},
			"Environment":  {Type: "Map"},
			"Layers":       {Type: "List"},
			"VpcConfig":    {Type: "Map"},
			"Policies":     {Type: "Json"},
			"Tags":         {Type: "Map"},
		},
	},
	"AWS::Serverless::LayerVersion": {
		Required: []string{"ContentUri"},
		Properties: map[string]PropertySchema{
			"LayerName":          {Type: "String"},
			"Description":        {Type: "String"},
			"ContentUri":         {Type: "Json"},
			"CompatibleRuntimes": {Type: "List"},
			"RetentionPolicy":    {Type: "String", AllowedValues: []string{"Retain", "Delete"}},
		},
	},
	"AWS::Serverless::Api": {
		Required: []string{"StageName"},
		Properties: map[string]PropertySchema{
			"Name":                  {Type: "String"},
			"Description":           {Type: "String"},
			"StageName":             {Type: "String"},
			"Cors":                  {Type: "Json"},
			"DefinitionBody":        {Type: "Map"},
			"EndpointConfiguration": {Type: "Json"},
		},
	},
	"AWS::Serverless::StateMachine": {
		Required: []string{"Definition"},
		Properties: map[string]PropertySchema{
			"Name":                    {Type: "String"},
			"Type":                    {Type: "String", AllowedValues: []string{"STANDARD", "EXPRESS"}},
			"Definition":              {Type: "Map"},
			"DefinitionSubstitutions": {Type: "Map"},
			"Policies":                {Type: "Json"},
			"Tracing":                 {Type: "Map"},
		},
	},
	"AWS::Events::Rule": {
		Required: []string{"EventPattern", "Targets"},
		Properties: map[string]PropertySchema{
			"Name":         {Type: "String"},
			"Description":  {Type: "String"},
			"EventBusName": {Type: "String"},
			"EventPattern": {Type: "Map"},
			"State":        {Type: "String", AllowedValues: []string{"ENABLED", "DISABLED"}},
			"Targets":      {Type: "List"},
		},
	},
	"AWS::Lambda::Permission": {
		Required: []string{"Action", "FunctionName", "Principal"},
		Properties: map[string]PropertySchema{
			"Action":       {Type: "String"},
			"FunctionName": {Type: "String"},
			"Principal":    {Type: "String"},
			"SourceArn":    {Type: "String"},
		},
	},
	"AWS::IAM::Role": {
		Required: []string{"AssumeRolePolicyDocument"},
		Properties: map[string]PropertySchema{
			"RoleName":                 {Type: "String"},
			"Description":              {Type: "String"},
			"AssumeRolePolicyDocument": {Type: "Json"},
			"Policies":                 {Type: "List"},
		},
	},
}
