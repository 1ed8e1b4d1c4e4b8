// Package events provides the AWS::Events resource types used for event
// subscriptions.
package events

// Rule is AWS::Events::Rule.
type Rule struct {
	Name         string         `json:"Name,omitempty"`
	Description  string         `json:"Description,omitempty"`
	EventBusName any            `json:"EventBusName,omitempty"`
	EventPattern map[string]any `json:"EventPattern,omitempty"`
	State        string         `json:"State,omitempty"`
	Targets      []Rule_Target  `json:"Targets,omitempty"`
}

// ResourceType returns "AWS::Events::Rule".
func (Rule) ResourceType() string { return "AWS::Events::Rule" }

// Rule_Target is one delivery target of a rule.
type Rule_Target struct {
	Arn         any               `json:"Arn"`
	Id          string            `json:"Id"`
	RetryPolicy *Rule_RetryPolicy `json:"RetryPolicy,omitempty"`
}

// Rule_RetryPolicy bounds delivery retries before an event is dropped or dead-lettered.
type Rule_RetryPolicy struct {
	MaximumRetryAttempts     int `json:"MaximumRetryAttempts"`
	MaximumEventAgeInSeconds int `json:"MaximumEventAgeInSeconds,omitempty"`
}

// Pattern returns an event pattern matching one source and one detail-type.
func Pattern(source, detailType string) map[string]any {
	return map[string]any{
		"source":      []any{source},
		"detail-type": []any{detailType},
	}
}
