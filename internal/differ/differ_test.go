package differ

import (
	"os"
	"path/filepath"
	"testing"

	wetwire "github.com/lex00/wetwire-domains-go"
)

func functionDef(memory any, env map[string]any) wetwire.ResourceDef {
	return wetwire.ResourceDef{
		Type: "AWS::Serverless::Function",
		Properties: map[string]any{
			"Handler":     "create_account.handler",
			"MemorySize":  memory,
			"Environment": map[string]any{"Variables": env},
		},
	}
}

func TestCompare(t *testing.T) {
	t1 := &wetwire.Template{
		Resources: map[string]wetwire.ResourceDef{
			"AccountsCreateAccountFunction": functionDef(256, map[string]any{"DB_URL": "a"}),
			"AccountsUpdateBalanceRule1":    {Type: "AWS::Events::Rule", Properties: map[string]any{"State": "ENABLED"}},
		},
	}

	t2 := &wetwire.Template{
		Resources: map[string]wetwire.ResourceDef{
			"AccountsCreateAccountFunction": functionDef(512, map[string]any{"DB_URL": "a"}),
			"AccountsApi":                   {Type: "AWS::Serverless::Api", Properties: map[string]any{"StageName": "prod"}},
		},
	}

	result, err := Compare(t1, t2, Options{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if len(result.Diff.Removed) != 1 || result.Diff.Removed[0].Resource != "AccountsUpdateBalanceRule1" {
		t.Errorf("Removed = %+v, want AccountsUpdateBalanceRule1", result.Diff.Removed)
	}
	if len(result.Diff.Added) != 1 || result.Diff.Added[0].Resource != "AccountsApi" {
		t.Errorf("Added = %+v, want AccountsApi", result.Diff.Added)
	}
	if len(result.Diff.Modified) != 1 {
		t.Fatalf("Modified = %d, want 1", len(result.Diff.Modified))
	}
	if got := result.Diff.Modified[0].Changes; len(got) != 1 || got[0] != "MemorySize modified" {
		t.Errorf("Changes = %v, want [MemorySize modified]", got)
	}
	if result.Summary.Total != 3 {
		t.Errorf("Summary.Total = %d, want 3", result.Summary.Total)
	}
}

func TestCompareIdenticalAcrossNumberTypes(t *testing.T) {
	// A synthesized template carries int64, a loaded one float64.
	t1 := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{
		"Fn": functionDef(int64(256), map[string]any{"DB_URL": "a"}),
	}}
	t2 := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{
		"Fn": functionDef(float64(256), map[string]any{"DB_URL": "a"}),
	}}

	result, err := Compare(t1, t2, Options{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if !result.Empty() {
		t.Errorf("Summary.Total = %d, want 0 for identical templates", result.Summary.Total)
	}
}

func TestCompareNestedPath(t *testing.T) {
	t1 := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{
		"Fn": functionDef(256, map[string]any{"DB_URL": "a", "EVENT_SOURCE": "martian-bank.accounts"}),
	}}
	t2 := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{
		"Fn": functionDef(256, map[string]any{"DB_URL": "b", "EVENT_BUS_NAME": "bank-events"}),
	}}

	result, err := Compare(t1, t2, Options{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if len(result.Diff.Modified) != 1 {
		t.Fatalf("Modified = %d, want 1", len(result.Diff.Modified))
	}

	want := []string{
		"Environment.Variables.DB_URL modified",
		"Environment.Variables.EVENT_BUS_NAME added",
		"Environment.Variables.EVENT_SOURCE removed",
	}
	got := result.Diff.Modified[0].Changes
	if len(got) != len(want) {
		t.Fatalf("Changes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Changes[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCompareIntrinsicIsLeaf(t *testing.T) {
	t1 := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{
		"Perm": {Type: "AWS::Lambda::Permission", Properties: map[string]any{"FunctionName": map[string]any{"Ref": "A"}}},
	}}
	t2 := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{
		"Perm": {Type: "AWS::Lambda::Permission", Properties: map[string]any{"FunctionName": map[string]any{"Ref": "B"}}},
	}}

	result, err := Compare(t1, t2, Options{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if got := result.Diff.Modified[0].Changes; len(got) != 1 || got[0] != "FunctionName modified" {
		t.Errorf("Changes = %v, want [FunctionName modified]", got)
	}
}

func TestCompareTypeChange(t *testing.T) {
	t1 := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{"R": {Type: "AWS::Serverless::Function"}}}
	t2 := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{"R": {Type: "AWS::Lambda::Function"}}}

	result, err := Compare(t1, t2, Options{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if len(result.Diff.Modified) != 1 {
		t.Fatalf("Modified = %d, want 1", len(result.Diff.Modified))
	}
	if got := result.Diff.Modified[0].Changes[0]; got != "Type changed: AWS::Serverless::Function → AWS::Lambda::Function" {
		t.Errorf("Changes[0] = %q", got)
	}
}

func TestCompareIgnoreOrder(t *testing.T) {
	t1 := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{
		"Fn": {Type: "AWS::Serverless::Function", Properties: map[string]any{"Layers": []any{"a", "b"}}},
	}}
	t2 := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{
		"Fn": {Type: "AWS::Serverless::Function", Properties: map[string]any{"Layers": []any{"b", "a"}}},
	}}

	strict, err := Compare(t1, t2, Options{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if strict.Empty() {
		t.Error("expected layer order change to be reported")
	}

	relaxed, err := Compare(t1, t2, Options{IgnoreOrder: true})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if !relaxed.Empty() {
		t.Errorf("IgnoreOrder: Summary.Total = %d, want 0", relaxed.Summary.Total)
	}
}

func TestCompareDependsOn(t *testing.T) {
	t1 := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{"R": {Type: "AWS::IAM::Role", DependsOn: []string{}}}}
	t2 := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{"R": {Type: "AWS::IAM::Role"}}}

	result, err := Compare(t1, t2, Options{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if !result.Empty() {
		t.Errorf("empty and nil DependsOn should compare equal, got %+v", result.Diff)
	}
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "old.json")
	yamlPath := filepath.Join(dir, "new.yaml")

	jsonDoc := `{"AWSTemplateFormatVersion": "2010-09-09", "Resources": {"AccountsApi": {"Type": "AWS::Serverless::Api", "Properties": {"StageName": "prod"}}}}`
	yamlDoc := "AWSTemplateFormatVersion: \"2010-09-09\"\nResources:\n  AccountsApi:\n    Type: AWS::Serverless::Api\n    Properties:\n      StageName: prod\n"

	if err := os.WriteFile(jsonPath, []byte(jsonDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(yamlPath, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := CompareFiles(jsonPath, yamlPath, Options{})
	if err != nil {
		t.Fatalf("CompareFiles() error = %v", err)
	}
	if !result.Empty() {
		t.Errorf("Summary.Total = %d, want 0", result.Summary.Total)
	}

	if _, err := CompareFiles(filepath.Join(dir, "missing.json"), yamlPath, Options{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseTemplate_Invalid(t *testing.T) {
	if _, err := ParseTemplate([]byte("Resources: [unclosed")); err == nil {
		t.Error("expected parse error")
	}
}
