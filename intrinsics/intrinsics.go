// Package intrinsics provides the CloudFormation intrinsic functions used when
// wiring domain resources together.
//
// The core types are re-exported from cloudformation-schema-go:
//
//	Ref{"AccountsApi"} → {"Ref": "AccountsApi"}
//	GetAtt{"AccountsCreateAccountFunction", "Arn"} → {"Fn::GetAtt": [..., "Arn"]}
//	Join{"", []any{"https://", Ref{"AccountsApi"}, ".execute-api.", AWS_REGION, ...}}
package intrinsics

import (
	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

type (
	// Ref represents a CloudFormation Ref intrinsic function.
	Ref = intrinsics.Ref

	// GetAtt represents a CloudFormation Fn::GetAtt intrinsic function.
	GetAtt = intrinsics.GetAtt

	// SubWithMap is Fn::Sub with a variable map.
	SubWithMap = intrinsics.SubWithMap

	// Join represents a CloudFormation Fn::Join intrinsic function.
	Join = intrinsics.Join
)

// RefTo returns a Ref to the resource with the given logical ID.
func RefTo(logicalID string) Ref {
	return Ref{LogicalName: logicalID}
}

// ArnOf returns a GetAtt for the Arn attribute of a resource.
func ArnOf(logicalID string) GetAtt {
	return GetAtt{LogicalName: logicalID, Attribute: "Arn"}
}
