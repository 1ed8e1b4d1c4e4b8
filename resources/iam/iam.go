// Package iam provides the AWS::IAM resource types used for service roles.
package iam

// Role is AWS::IAM::Role.
type Role struct {
	RoleName                 string        `json:"RoleName,omitempty"`
	Description              string        `json:"Description,omitempty"`
	AssumeRolePolicyDocument any           `json:"AssumeRolePolicyDocument"`
	Policies                 []Role_Policy `json:"Policies,omitempty"`
}

// ResourceType returns "AWS::IAM::Role".
func (Role) ResourceType() string { return "AWS::IAM::Role" }

// Role_Policy is an inline role policy.
type Role_Policy struct {
	PolicyName     string `json:"PolicyName"`
	PolicyDocument any    `json:"PolicyDocument"`
}
