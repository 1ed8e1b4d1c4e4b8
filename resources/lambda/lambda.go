// Package lambda provides AWS::Lambda resource types not covered by SAM.
package lambda

// Permission is AWS::Lambda::Permission.
type Permission struct {
	Action       string `json:"Action"`
	FunctionName any    `json:"FunctionName"`
	Principal    string `json:"Principal"`
	SourceArn    any    `json:"SourceArn,omitempty"`
}

// ResourceType returns "AWS::Lambda::Permission".
func (Permission) ResourceType() string { return "AWS::Lambda::Permission" }

// InvokeFunction is the action granted to event and API sources.
const InvokeFunction = "lambda:InvokeFunction"
