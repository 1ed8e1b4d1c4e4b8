package pattern

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/sets"

	wetwire "github.com/lex00/wetwire-domains-go"
	"github.com/lex00/wetwire-domains-go/domain"
	"github.com/lex00/wetwire-domains-go/internal/ctxlog"
	"github.com/lex00/wetwire-domains-go/internal/serialize"
	"github.com/lex00/wetwire-domains-go/intrinsics"
	"github.com/lex00/wetwire-domains-go/resources/events"
	"github.com/lex00/wetwire-domains-go/resources/iam"
	"github.com/lex00/wetwire-domains-go/resources/lambda"
	"github.com/lex00/wetwire-domains-go/resources/serverless"
)

// Environment variables injected into every function.
const (
	EnvEventBusName = "EVENT_BUS_NAME"
	EnvEventSource  = "EVENT_SOURCE"
	EnvDatabaseURL  = "DB_URL"
)

const (
	// StageName is the deployment stage of every domain API.
	StageName = "prod"

	// EventRetryAttempts bounds redelivery of a subscribed event.
	EventRetryAttempts = 2

	lambdaInvokeTask = "arn:aws:states:::lambda:invoke"
	allowAll         = "'*'"
)

type pendingResource struct {
	logicalID string
	resource  wetwire.Resource
}

// materializer turns one declaration into staged resources. Nothing touches
// the stack until every stage has succeeded.
type materializer struct {
	stack *Stack
	id    string
	decl  *domain.Declaration
	log   *slog.Logger

	pending   []pendingResource
	staged    sets.Set[string]
	outputs   map[string]wetwire.Output
	functions map[string]*serverless.Function
	layerRefs []any

	out *domain.Materialized
}

// Materialize creates the resources of a validated declaration under the
// logical ID prefix id. Stages run in order: layers, functions, event wiring,
// workflow, API.
func (s *Stack) Materialize(ctx context.Context, id string, decl *domain.Declaration) (*domain.Materialized, error) {
	if decl == nil {
		return nil, errNilDeclaration
	}

	m := &materializer{
		stack:     s,
		id:        id,
		decl:      decl,
		log:       ctxlog.FromContext(ctx).With("domain", decl.Name, "id", id),
		staged:    sets.New[string](),
		outputs:   make(map[string]wetwire.Output),
		functions: make(map[string]*serverless.Function),
		out: &domain.Materialized{
			Domain:    decl.Name,
			Functions: make(map[string]domain.FunctionHandle),
		},
	}

	stages := []struct {
		name string
		run  func() error
	}{
		{"layers", m.materializeLayers},
		{"functions", m.materializeFunctions},
		{"events", m.wireEvents},
		{"workflow", m.materializeWorkflow},
		{"api", m.materializeApi},
	}
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := stage.run(); err != nil {
			return nil, fmt.Errorf("materializing %s %s: %w", decl.Name, stage.name, err)
		}
	}

	m.commit()
	return m.out, nil
}

func (m *materializer) stage(logicalID string, r wetwire.Resource) error {
	if m.staged.Has(logicalID) {
		return &DuplicateResourceError{LogicalID: logicalID, Domain: m.decl.Name}
	}
	if m.stack.Has(logicalID) {
		return &DuplicateResourceError{LogicalID: logicalID, Domain: m.stack.Owner(logicalID)}
	}
	m.staged.Insert(logicalID)
	m.pending = append(m.pending, pendingResource{logicalID: logicalID, resource: r})
	return nil
}

func (m *materializer) commit() {
	for _, p := range m.pending {
		// Conflicts were ruled out while staging.
		_ = m.stack.add(p.logicalID, p.resource, m.decl.Name)
		m.log.Debug("resource created", "logical_id", p.logicalID, "type", p.resource.ResourceType())
	}
	for name, out := range m.outputs {
		m.stack.outputs[name] = out
	}
	m.stack.domains = append(m.stack.domains, m.out)
}

func (m *materializer) materializeLayers() error {
	for i, cfg := range m.decl.Layers {
		logicalID := LogicalID(m.id, fmt.Sprintf("Layer%d", i+1))
		runtimes := cfg.CompatibleRuntimes
		if len(runtimes) == 0 {
			runtimes = []string{domain.DefaultRuntime}
		}
		layer := &serverless.LayerVersion{
			Description:        cfg.Description,
			ContentUri:         cfg.SourceLocation,
			CompatibleRuntimes: runtimes,
			RetentionPolicy:    "Delete",
		}
		if err := m.stage(logicalID, layer); err != nil {
			return err
		}
		m.layerRefs = append(m.layerRefs, intrinsics.RefTo(logicalID))
		m.out.Layers = append(m.out.Layers, domain.LayerHandle{LogicalID: logicalID, Config: cfg})
	}
	return nil
}

func (m *materializer) materializeFunctions() error {
	net := m.decl.Network
	for _, fn := range m.decl.Functions {
		logicalID := LogicalID(m.id, fn.Name, "Function")

		res := &serverless.Function{
			Description: fmt.Sprintf("%s %s", m.decl.Name, fn.Name),
			Handler:     fn.EntryPoint,
			Runtime:     fn.Runtime,
			CodeUri:     fn.SourceLocation,
			MemorySize:  fn.MemoryMB,
			Timeout:     timeoutSeconds(fn.Timeout),
			Layers:      m.layerRefs,
			VpcConfig: &serverless.Function_VpcConfig{
				SecurityGroupIds: toAny(net.SecurityGroupIDs),
				SubnetIds:        toAny(net.SubnetIDs),
			},
		}
		if env := m.environment(fn); len(env) > 0 {
			res.Environment = &serverless.Function_Environment{Variables: env}
		}

		if err := m.stage(logicalID, res); err != nil {
			return err
		}
		m.functions[fn.Name] = res
		m.out.Functions[fn.Name] = domain.FunctionHandle{
			Name:      fn.Name,
			LogicalID: logicalID,
			Arn:       intrinsics.ArnOf(logicalID),
		}
	}
	return nil
}

// environment merges the user environment with the derived values. Derived
// values win on conflict.
func (m *materializer) environment(fn domain.FunctionDeclaration) map[string]any {
	env := make(map[string]any, len(fn.Environment)+3)
	for k, v := range fn.Environment {
		env[k] = v
	}
	if bus := m.decl.EventBus; bus != nil {
		env[EnvEventBusName] = busName(bus)
		env[EnvEventSource] = m.decl.EventSource()
	}
	if db := m.decl.Database; db != nil {
		env[EnvDatabaseURL] = db.Endpoint
	}
	return env
}

func (m *materializer) wireEvents() error {
	for _, fn := range m.decl.Functions {
		handle := m.out.Functions[fn.Name]

		if fn.ProducesEvents && m.decl.EventBus != nil {
			res := m.functions[fn.Name]
			res.Policies = append(res.Policies, serverless.EventBridgePutEventsPolicy(busName(m.decl.EventBus)))
		}

		for i, sub := range fn.Subscriptions {
			ruleID := LogicalID(m.id, fn.Name, fmt.Sprintf("Rule%d", i+1))
			rule := &events.Rule{
				Description:  fmt.Sprintf("%s %s -> %s", sub.Source, sub.DetailType, fn.Name),
				EventPattern: events.Pattern(sub.Source, sub.DetailType),
				State:        "ENABLED",
				Targets: []events.Rule_Target{{
					Arn:         handle.Arn,
					Id:          "Target",
					RetryPolicy: &events.Rule_RetryPolicy{MaximumRetryAttempts: EventRetryAttempts},
				}},
			}
			if m.decl.EventBus != nil {
				rule.EventBusName = busName(m.decl.EventBus)
			}
			if err := m.stage(ruleID, rule); err != nil {
				return err
			}

			permission := &lambda.Permission{
				Action:       lambda.InvokeFunction,
				FunctionName: intrinsics.RefTo(handle.LogicalID),
				Principal:    "events.amazonaws.com",
				SourceArn:    intrinsics.ArnOf(ruleID),
			}
			if err := m.stage(LogicalID(m.id, fn.Name, fmt.Sprintf("Rule%dPermission", i+1)), permission); err != nil {
				return err
			}

			m.out.Rules = append(m.out.Rules, domain.EventRule{
				LogicalID:    ruleID,
				Function:     fn.Name,
				Subscription: sub,
			})
		}
	}
	return nil
}

func (m *materializer) materializeWorkflow() error {
	wf := m.decl.Workflow
	if wf == nil {
		return nil
	}
	logicalID := LogicalID(m.id, wf.ID, "StateMachine")

	states := make(map[string]any, len(wf.Steps))
	substitutions := make(map[string]any, len(wf.Steps))
	var policies []any

	for _, step := range wf.Steps {
		handle, ok := m.out.Functions[step.FunctionName]
		if !ok {
			return &UnboundStepError{Workflow: wf.ID, Step: step.Name, Function: step.FunctionName}
		}

		arnKey := LogicalID(step.Name, "FunctionArn")
		substitutions[arnKey] = handle.Arn
		policies = append(policies, serverless.LambdaInvokePolicy(intrinsics.RefTo(handle.LogicalID)))

		selector := step.InputSelector
		if selector == "" {
			selector = "$"
		}
		state := map[string]any{
			"Type":     "Task",
			"Resource": lambdaInvokeTask,
			"Parameters": map[string]any{
				"FunctionName": "${" + arnKey + "}",
				"Payload.$":    selector,
			},
			"OutputPath": "$.Payload",
		}
		if next, ok := wf.Next(step.Name); ok {
			state["Next"] = next
		} else {
			state["End"] = true
		}
		states[step.Name] = state
	}

	sm := &serverless.StateMachine{
		Type: "EXPRESS",
		Definition: map[string]any{
			"Comment": fmt.Sprintf("%s %s", m.decl.Name, wf.ID),
			"StartAt": wf.StartAt(),
			"States":  states,
		},
		DefinitionSubstitutions: substitutions,
		Policies:                policies,
	}
	if err := m.stage(logicalID, sm); err != nil {
		return err
	}

	m.out.Workflow = &domain.WorkflowHandle{
		ID:        wf.ID,
		LogicalID: logicalID,
		Arn:       intrinsics.RefTo(logicalID),
		Steps:     wf.Steps,
	}
	return nil
}

func (m *materializer) materializeApi() error {
	apiID := LogicalID(m.id, "Api")
	paths := make(map[string]any)
	permitted := sets.New[string]()
	var roleID string

	for _, route := range m.decl.Routes {
		var (
			integration map[string]any
			target      string
		)

		switch route.Kind {
		case domain.TargetFunction:
			handle, ok := m.out.Functions[route.Target]
			if !ok {
				return &domain.UnboundRouteError{Domain: m.decl.Name, Route: route}
			}
			target = handle.LogicalID
			integration = proxyIntegration(handle.LogicalID)

			if !permitted.Has(route.Target) {
				permitted.Insert(route.Target)
				permission := &lambda.Permission{
					Action:       lambda.InvokeFunction,
					FunctionName: intrinsics.RefTo(handle.LogicalID),
					Principal:    "apigateway.amazonaws.com",
					SourceArn:    executeAPIArn(apiID),
				}
				if err := m.stage(LogicalID(m.id, route.Target, "ApiPermission"), permission); err != nil {
					return err
				}
			}

		case domain.TargetWorkflow:
			wf := m.out.Workflow
			if wf == nil || wf.ID != route.Target {
				return &domain.UnboundRouteError{Domain: m.decl.Name, Route: route}
			}
			if roleID == "" {
				roleID = LogicalID(m.id, wf.ID, "ApiRole")
				if err := m.stage(roleID, startExecutionRole(wf.LogicalID)); err != nil {
					return err
				}
			}
			target = wf.LogicalID
			integration = syncExecutionIntegration(wf.LogicalID, roleID)

		default:
			return &domain.UnboundRouteError{Domain: m.decl.Name, Route: route}
		}

		ops, _ := paths[route.Path].(map[string]any)
		if ops == nil {
			ops = make(map[string]any)
			paths[route.Path] = ops
		}
		ops[strings.ToLower(route.Method)] = map[string]any{
			"x-amazon-apigateway-integration": integration,
			"responses": map[string]any{
				"200": map[string]any{"description": "OK"},
			},
		}

		m.out.Routes = append(m.out.Routes, domain.BoundRoute{Route: route, TargetLogicalID: target})
	}

	title := m.decl.Api.Name
	if title == "" {
		title = m.decl.Namespace + "-" + m.decl.Name + "-api"
	}
	api := &serverless.Api{
		Name:        m.decl.Api.Name,
		Description: m.decl.Api.Description,
		StageName:   StageName,
		Cors:        corsConfiguration(m.decl.Api.Cors),
		DefinitionBody: map[string]any{
			"openapi": "3.0.1",
			"info": map[string]any{
				"title":   title,
				"version": "1.0",
			},
			"paths": paths,
		},
	}
	if err := m.stage(apiID, api); err != nil {
		return err
	}

	m.out.ApiLogicalID = apiID
	m.out.ApiURL = apiURL(apiID)

	outputName := LogicalID(m.id, "ApiUrl")
	if _, exists := m.stack.outputs[outputName]; exists {
		return &DuplicateOutputError{Name: outputName}
	}
	m.outputs[outputName] = wetwire.Output{
		Description: fmt.Sprintf("Base URL of the %s API", m.decl.Name),
		Value:       m.out.ApiURL,
		Export:      &wetwire.OutputExport{Name: m.decl.Namespace + "-" + m.decl.Name + "-api-url"},
	}
	return nil
}

// executeAPIArn matches every stage, method and path of the API.
func executeAPIArn(apiID string) intrinsics.Join {
	return intrinsics.Join{
		Delimiter: "",
		Values: []any{
			"arn:", intrinsics.AWS_PARTITION,
			":execute-api:", intrinsics.AWS_REGION,
			":", intrinsics.AWS_ACCOUNT_ID,
			":", intrinsics.RefTo(apiID), "/*",
		},
	}
}

func apiURL(apiID string) intrinsics.Join {
	return intrinsics.Join{
		Delimiter: "",
		Values: []any{
			"https://", intrinsics.RefTo(apiID),
			".execute-api.", intrinsics.AWS_REGION,
			".", intrinsics.AWS_URL_SUFFIX,
			"/" + StageName + "/",
		},
	}
}

// integrationURI addresses an API Gateway service action in the stack's region.
func integrationURI(action ...any) intrinsics.Join {
	values := []any{"arn:", intrinsics.AWS_PARTITION, ":apigateway:", intrinsics.AWS_REGION, ":"}
	return intrinsics.Join{Delimiter: "", Values: append(values, action...)}
}

func proxyIntegration(functionID string) map[string]any {
	return map[string]any{
		"type":       "aws_proxy",
		"httpMethod": "POST",
		"uri":        integrationURI("lambda:path/2015-03-31/functions/", intrinsics.ArnOf(functionID), "/invocations"),
	}
}

func syncExecutionIntegration(stateMachineID, roleID string) map[string]any {
	request := intrinsics.SubWithMap{
		String: `{"input": "$util.escapeJavaScript($input.json('$'))", "stateMachineArn": "${StateMachineArn}"}`,
		Variables: map[string]any{
			"StateMachineArn": intrinsics.RefTo(stateMachineID),
		},
	}
	return map[string]any{
		"type":        "aws",
		"httpMethod":  "POST",
		"uri":         integrationURI("states:action/StartSyncExecution"),
		"credentials": intrinsics.ArnOf(roleID),
		"requestTemplates": map[string]any{
			"application/json": request,
		},
		"passthroughBehavior": "when_no_templates",
		"responses": map[string]any{
			"default": map[string]any{
				"statusCode": "200",
				"responseTemplates": map[string]any{
					"application/json": "$input.path('$.output')",
				},
			},
		},
	}
}

func startExecutionRole(stateMachineID string) *iam.Role {
	return &iam.Role{
		AssumeRolePolicyDocument: intrinsics.AssumeRolePolicy("apigateway.amazonaws.com"),
		Policies: []iam.Role_Policy{{
			PolicyName: "StartSyncExecution",
			PolicyDocument: intrinsics.NewPolicyDocument(intrinsics.PolicyStatement{
				Effect:   "Allow",
				Action:   []any{"states:StartSyncExecution"},
				Resource: intrinsics.RefTo(stateMachineID),
			}),
		}},
	}
}

// corsConfiguration renders the SAM CORS block. Unset or empty lists allow all.
func corsConfiguration(cfg *domain.CorsConfig) *serverless.Api_CorsConfiguration {
	if cfg == nil {
		return &serverless.Api_CorsConfiguration{AllowOrigin: allowAll, AllowMethods: allowAll}
	}
	cors := &serverless.Api_CorsConfiguration{
		AllowOrigin:  quoteList(cfg.AllowOrigins),
		AllowMethods: quoteList(cfg.AllowMethods),
	}
	if len(cfg.AllowHeaders) > 0 {
		cors.AllowHeaders = quoteList(cfg.AllowHeaders)
	}
	return cors
}

func quoteList(values []string) string {
	if len(values) == 0 {
		return allowAll
	}
	return "'" + strings.Join(values, ",") + "'"
}

func busName(bus *domain.EventBusRef) string {
	if bus.Name != "" {
		return bus.Name
	}
	return bus.Arn
}

func toAny(values []string) []any {
	if len(values) == 0 {
		return nil
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// LogicalID joins parts into a PascalCase CloudFormation logical ID, dropping
// characters CloudFormation does not allow.
func LogicalID(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		clean := strings.Map(func(r rune) rune {
			if r < 128 && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
				return r
			}
			return '_'
		}, p)
		b.WriteString(serialize.ToPascalCase(clean))
	}
	return b.String()
}

// timeoutSeconds rounds d up to whole seconds.
func timeoutSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}
