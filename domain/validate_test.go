package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_RequiredFields(t *testing.T) {
	withFunction := func(b *Builder) *Builder {
		fn, err := b.AddLambda("CreateAccount", LambdaConfig{})
		require.NoError(t, err)
		require.NoError(t, fn.ExposeRoute("/account/create", "POST"))
		return b
	}

	tests := []struct {
		name  string
		build func() *Builder
		field ConfigField
	}{
		{
			name:  "missing network with everything else",
			build: func() *Builder { return withFunction(New("accounts").WithApi(ApiConfig{Name: "Api"})) },
			field: FieldNetwork,
		},
		{
			name:  "missing network and api",
			build: func() *Builder { return withFunction(New("accounts")) },
			field: FieldNetwork,
		},
		{
			name:  "missing network on empty domain",
			build: func() *Builder { return New("accounts") },
			field: FieldNetwork,
		},
		{
			name:  "missing api",
			build: func() *Builder { return withFunction(New("accounts").WithNetwork(testNetwork)) },
			field: FieldAPI,
		},
		{
			name: "no functions",
			build: func() *Builder {
				return New("accounts").WithNetwork(testNetwork).WithApi(ApiConfig{Name: "Api"})
			},
			field: FieldFunctions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope := &recordingScope{}
			_, err := tt.build().Build(context.Background(), scope, "Accounts")

			var missing *MissingRequiredConfigurationError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.field, missing.Field)
			assert.Zero(t, scope.calls, "nothing may be materialized after a validation failure")
		})
	}
}

func TestValidate_OrphanedFunction(t *testing.T) {
	setup := func() (*Builder, *LambdaBuilder) {
		b := newAccounts(t)
		fn, err := b.AddLambda("UpdateBalance", LambdaConfig{})
		require.NoError(t, err)
		return b, fn
	}

	t.Run("no route and no subscription", func(t *testing.T) {
		b, _ := setup()
		err := b.Validate()
		var orphan *OrphanedFunctionError
		require.ErrorAs(t, err, &orphan)
		assert.Equal(t, "UpdateBalance", orphan.Name)
	})

	t.Run("route makes it reachable", func(t *testing.T) {
		b, fn := setup()
		require.NoError(t, fn.ExposeRoute("/balance", "PUT"))
		assert.NoError(t, b.Validate())
	})

	t.Run("subscription makes it reachable", func(t *testing.T) {
		b, fn := setup()
		fn.AddEventSubscription("martian-bank.transactions", "transaction.completed")
		assert.NoError(t, b.Validate())
	})
}

func TestValidate_WorkflowReachability(t *testing.T) {
	setup := func() (*Builder, *WorkflowBuilder) {
		b := New("loans").WithNetwork(testNetwork).WithApi(ApiConfig{Name: "LoansApi"})
		wf, err := b.BeginWorkflow("LoanProcessing")
		require.NoError(t, err)
		require.NoError(t, wf.AddStep("GetAccount", StepConfig{EntryPoint: "get_account.handler"}, nil))
		require.NoError(t, wf.AddStep("EvaluateLoan", StepConfig{EntryPoint: "evaluate_loan.handler"}, nil))
		return b, wf
	}

	t.Run("no route targets the workflow", func(t *testing.T) {
		b, _ := setup()
		var unreachable *UnreachableWorkflowError
		require.ErrorAs(t, b.Validate(), &unreachable)
		assert.Equal(t, "LoanProcessing", unreachable.Workflow)
	})

	t.Run("exposed workflow validates", func(t *testing.T) {
		b, wf := setup()
		require.NoError(t, wf.ExposeRoute("/loan/process", "POST"))
		assert.NoError(t, b.Validate())
	})

	t.Run("steps are exempt from orphan detection", func(t *testing.T) {
		b, wf := setup()
		require.NoError(t, wf.ExposeRoute("/loan/process", "POST"))
		step, ok := b.Function(StepFunctionName("GetAccount"))
		require.True(t, ok)
		assert.Empty(t, step.Subscriptions)
		assert.NoError(t, b.Validate())
	})
}

func TestValidate_EmptyWorkflow(t *testing.T) {
	b := newAccounts(t)
	fn, err := b.AddLambda("CreateAccount", LambdaConfig{})
	require.NoError(t, err)
	require.NoError(t, fn.ExposeRoute("/account/create", "POST"))

	wf, err := b.BeginWorkflow("Empty")
	require.NoError(t, err)
	require.NoError(t, wf.ExposeRoute("/empty", "POST"))

	var empty *EmptyWorkflowError
	require.ErrorAs(t, b.Validate(), &empty)
}

func TestValidate_WorkflowRouteWithoutWorkflow(t *testing.T) {
	b := newAccounts(t)
	fn, err := b.AddLambda("CreateAccount", LambdaConfig{})
	require.NoError(t, err)
	require.NoError(t, fn.ExposeRoute("/account/create", "POST"))
	require.NoError(t, b.RegisterRoute(RouteDeclaration{Path: "/loan/process", Method: "POST", Target: "LoanProcessing", Kind: TargetWorkflow}))

	var unknown *UnknownTargetError
	require.ErrorAs(t, b.Validate(), &unknown)
	assert.Equal(t, TargetWorkflow, unknown.Route.Kind)
}

func TestValidate_OrphanReportedBeforeUnknownWorkflowTarget(t *testing.T) {
	b := newAccounts(t)
	_, err := b.AddLambda("Audit", LambdaConfig{})
	require.NoError(t, err)
	require.NoError(t, b.RegisterRoute(RouteDeclaration{Path: "/loan/process", Method: "POST", Target: "LoanProcessing", Kind: TargetWorkflow}))

	var orphan *OrphanedFunctionError
	require.ErrorAs(t, b.Validate(), &orphan)
	assert.Equal(t, "Audit", orphan.Name)
}

func TestValidate_SealedMutationSurfaces(t *testing.T) {
	b := New("loans").WithNetwork(testNetwork).WithApi(ApiConfig{Name: "LoansApi"})
	wf, err := b.BeginWorkflow("LoanProcessing")
	require.NoError(t, err)

	var step *LambdaBuilder
	require.NoError(t, wf.AddStep("GetAccount", StepConfig{}, func(l *LambdaBuilder) { step = l }))
	require.NoError(t, wf.ExposeRoute("/loan/process", "POST"))
	wf.Done()

	step.SetMemory(2048)

	var sealed *SealedFunctionError
	require.ErrorAs(t, b.Validate(), &sealed)
	assert.Equal(t, "GetAccountStepFunction", sealed.Name)

	decl, _ := b.Function("GetAccountStepFunction")
	assert.Equal(t, DefaultMemoryMB, decl.MemoryMB)
}

func TestValidate_AccountsScenario(t *testing.T) {
	b := newAccounts(t)
	create, err := b.AddLambda("CreateAccount", LambdaConfig{EntryPoint: "create_account.handler"})
	require.NoError(t, err)
	require.NoError(t, create.ExposeRoute("/account/create", "POST"))

	update, err := b.AddLambda("UpdateBalance", LambdaConfig{EntryPoint: "update_balance.handler"})
	require.NoError(t, err)
	update.AddEventSubscription("bank.transactions", "transaction.completed")

	assert.NoError(t, b.Validate())
}
