package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/joestump/joe-copilot/internal/catalog"
)

var fixedClock = func() time.Time {
	return time.Date(2024, time.March, 5, 23, 30, 0, 0, time.FixedZone("PST", -8*3600))
}

var acme = catalog.OrgInfo{Name: "Acme", Description: "Acme sells widgets."}

func mustAction(t *testing.T, src string) catalog.Action {
	t.Helper()
	var a catalog.Action
	if err := json.Unmarshal([]byte(src), &a); err != nil {
		t.Fatalf("decode action: %v", err)
	}
	return a
}

// shopCatalog is a Home page with a search action plus a Cart page with none.
func shopCatalog(t *testing.T) []catalog.Page {
	t.Helper()
	return []catalog.Page{
		{
			Name:        "Home",
			Description: "Landing page",
			Actions: []catalog.Action{mustAction(t, `{
				"name": "search",
				"description": "Search items",
				"parameters": [{"name": "q", "required": true, "schema": {"type": "string"}}]
			}`)},
		},
		{Name: "Cart", Description: "View cart"},
	}
}

func TestAssemble_PageNotFound(t *testing.T) {
	a := &Assembler{Now: fixedClock}
	msgs, err := a.Assemble(nil, shopCatalog(t), "", "Checkout", acme, "English")
	if !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("err = %v, want ErrPageNotFound", err)
	}
	if msgs != nil {
		t.Errorf("msgs = %v, want nil", msgs)
	}
	if !strings.Contains(err.Error(), `"Checkout"`) || !strings.Contains(err.Error(), `"Cart"`) {
		t.Errorf("error should name the page and the catalog: %v", err)
	}
}

func TestAssemble_PrependsSystemMessage(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: "find red socks"},
		{Role: RoleAssistant, Content: "Reasoning: ..."},
		{Role: RoleUser, Content: "now add them to my cart"},
	}
	a := &Assembler{Now: fixedClock}
	msgs, err := a.Assemble(history, shopCatalog(t), "", "Home", acme, "English")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if len(msgs) != len(history)+1 {
		t.Fatalf("len(msgs) = %d, want %d", len(msgs), len(history)+1)
	}
	if msgs[0].Role != RoleSystem {
		t.Errorf("msgs[0].Role = %q, want system", msgs[0].Role)
	}
	for i, h := range history {
		if msgs[i+1] != h {
			t.Errorf("msgs[%d] = %+v, want %+v", i+1, msgs[i+1], h)
		}
	}

	msgs[1].Content = "changed"
	if history[0].Content != "find red socks" {
		t.Error("Assemble aliased the caller's history")
	}
}

func TestAssemble_EmptyHistory(t *testing.T) {
	msgs, err := (&Assembler{Now: fixedClock}).Assemble(nil, shopCatalog(t), "", "Cart", acme, "English")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Role != RoleSystem {
		t.Fatalf("msgs = %+v, want a single system message", msgs)
	}
}

func TestAssemble_SystemMessageLayout(t *testing.T) {
	a := &Assembler{Now: fixedClock}
	msgs, err := a.Assemble(nil, shopCatalog(t), "Alex, a power user. Keep it short.", "Home", acme, "Spanish")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	system := msgs[0].Content

	commands, err := RenderCommands(shopCatalog(t), "Home")
	if err != nil {
		t.Fatalf("RenderCommands: %v", err)
	}

	fragments := []string{
		"You are Acme chatbot AI. Acme sells widgets. Your role is to be helpful to the user. Help them achieve tasks in Acme by calling functions.\n\n",
		"Output commands in the order you want them to be performed.\n\nThe following is a description of the user and instructions on how you should address them - it's important that you take notice of this. Alex, a power user. Keep it short.\n\nThe date today is 2024-03-06.\n\n",
		"You are currently on the Home page.",
		`{{"REQUIRED" if parameter required}}".` + "\n" + commands + "\n\nIf you need to use the output",
		"Be as concise as possible in your responses. \n\n",
		"Think and talk to the user in the following language: Spanish. This should ONLY affect the Reasoning, Plan & Tell user outputs. NOT the commands or completed.",
		"Commands: (optional)\nFUNCTION_NAME_1(PARAM_NAME_1=PARAM_VALUE_1, PARAM_NAME_2=PARAM_VALUE_2, ...)\n\nCompleted: (true or false or question)",
	}
	for _, f := range fragments {
		if !strings.Contains(system, f) {
			t.Errorf("system prompt missing %q", f)
		}
	}
	if !strings.HasSuffix(system, "set to question. THIS IS VERY IMPORTANT! DO NOT FORGET THIS!") {
		t.Errorf("system prompt has unexpected ending: %q", system[len(system)-60:])
	}
}

func TestAssemble_OmitsUserParagraphWhenAbsent(t *testing.T) {
	msgs, err := (&Assembler{Now: fixedClock}).Assemble(nil, shopCatalog(t), "", "Home", acme, "English")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.Contains(msgs[0].Content, "to be performed.\n\nThe date today is 2024-03-06.") {
		t.Errorf("expected date to follow the instructions directly:\n%s", msgs[0].Content)
	}
	if strings.Contains(msgs[0].Content, "description of the user") {
		t.Error("user paragraph rendered without a user description")
	}
}

func TestAssemble_LanguageOnlyChangesLanguageSentence(t *testing.T) {
	a := &Assembler{Now: fixedClock}
	en, err := a.Assemble(nil, shopCatalog(t), "", "Home", acme, "English")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	fr, err := a.Assemble(nil, shopCatalog(t), "", "Home", acme, "French")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	enLines := strings.Split(en[0].Content, "\n")
	frLines := strings.Split(fr[0].Content, "\n")
	if len(enLines) != len(frLines) {
		t.Fatalf("line counts differ: %d vs %d", len(enLines), len(frLines))
	}
	var diffs []int
	for i := range enLines {
		if enLines[i] != frLines[i] {
			diffs = append(diffs, i)
		}
	}
	if len(diffs) != 1 || !strings.HasPrefix(frLines[diffs[0]], "Think and talk to the user in the following language: French.") {
		t.Errorf("differing lines = %v", diffs)
	}
}

func TestRenderCommands_Example(t *testing.T) {
	got, err := RenderCommands(shopCatalog(t), "Home")
	if err != nil {
		t.Fatalf("RenderCommands: %v", err)
	}
	want := `1. navigateTo: This will navigate you to another page. This enables you to use functions that are available on that page. Available pages (in format "- 'page-name': description") are: ` +
		"\n- 'Cart': View cart. PARAMETERS: - pageName (string): The name of the page you want to navigate to. REQUIRED\n" +
		"2. search: Search items. PARAMETERS: \n- q (string). REQUIRED\n"
	if got != want {
		t.Errorf("RenderCommands =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderCommands_RequiredOnParameterSchema(t *testing.T) {
	src := `[
		{"name": "Home", "description": "Landing page", "actions": [
			{"name": "search", "description": "Search items", "parameters": [
				{"name": "q", "schema": {"type": "string", "required": true}}
			]}
		]},
		{"name": "Cart", "description": "View cart", "actions": []}
	]`
	var pages []catalog.Page
	if err := json.Unmarshal([]byte(src), &pages); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	got, err := RenderCommands(pages, "Home")
	if err != nil {
		t.Fatalf("RenderCommands: %v", err)
	}
	if !strings.Contains(got, "'Cart': View cart. PARAMETERS: - pageName (string)") {
		t.Errorf("navigation entry missing:\n%s", got)
	}
	if want := "\n2. search: Search items. PARAMETERS: \n- q (string). REQUIRED\n"; !strings.HasSuffix(got, want) {
		t.Errorf("RenderCommands =\n%q\nwant suffix\n%q", got, want)
	}
}

func TestRenderCommands_EnumValues(t *testing.T) {
	tests := []struct {
		name string
		enum string
		want string
	}{
		{name: "empty", enum: `[]`, want: "(string: )"},
		{name: "null member", enum: `["a", null]`, want: "(string: a,)"},
		{name: "large numbers", enum: `[1e21, 123456789012, 0.0000001]`, want: "(string: 1e+21,123456789012,1e-7)"},
		{name: "nested", enum: `[["a", "b"], "c", {"k": 1}]`, want: "(string: a,b,c,[object Object])"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action := mustAction(t, `{"name": "pick", "description": "Pick", "parameters": [
				{"name": "v", "schema": {"type": "string", "enum": `+tt.enum+`}}
			]}`)
			got, err := RenderCommands([]catalog.Page{{Name: "Home", Actions: []catalog.Action{action}}}, "Home")
			if err != nil {
				t.Fatalf("RenderCommands: %v", err)
			}
			if want := "- v " + tt.want + ". "; !strings.Contains(got, want) {
				t.Errorf("RenderCommands = %q, want %q", got, want)
			}
		})
	}
}

func TestRenderCommands_SinglePageHasNoNavigation(t *testing.T) {
	pages := shopCatalog(t)[:1]
	got, err := RenderCommands(pages, "Home")
	if err != nil {
		t.Fatalf("RenderCommands: %v", err)
	}
	if strings.Contains(got, "navigateTo") {
		t.Errorf("navigateTo rendered with nowhere to go:\n%s", got)
	}
	if !strings.HasPrefix(got, "1. search: Search items.") {
		t.Errorf("numbering should start at the first action:\n%s", got)
	}
}

func TestRenderCommands_NavigationListsOtherPagesInOrder(t *testing.T) {
	pages := []catalog.Page{
		{Name: "Orders", Description: "Past orders"},
		{Name: "Home", Description: "Landing page", Actions: []catalog.Action{{Name: "refresh", Description: "Reload"}}},
		{Name: "Settings", Description: "Account settings"},
	}
	got, err := RenderCommands(pages, "Home")
	if err != nil {
		t.Fatalf("RenderCommands: %v", err)
	}
	if !strings.HasPrefix(got, "1. navigateTo: ") {
		t.Fatalf("navigateTo should be command 1:\n%s", got)
	}
	if !strings.Contains(got, "are: \n- 'Orders': Past orders\n- 'Settings': Account settings. PARAMETERS: - pageName") {
		t.Errorf("page list wrong:\n%s", got)
	}
	if strings.Contains(got, "- 'Home'") {
		t.Error("current page offered as a navigation target")
	}
	if !strings.Contains(got, "\n2. refresh: Reload.\n") {
		t.Errorf("action without parameters should stand alone:\n%s", got)
	}
}

func enumAction(t *testing.T, n int) catalog.Action {
	t.Helper()
	values := make([]string, n)
	for i := range values {
		values[i] = fmt.Sprintf("%q", fmt.Sprintf("v%d", i))
	}
	return mustAction(t, `{
		"name": "pick",
		"description": "Pick one",
		"parameters": [{"name": "choice", "schema": {"type": "string", "enum": [`+strings.Join(values, ",")+`]}}],
		"request_body_contents": {"application/json": {"schema": {"type": "object", "properties": {
			"also": {"type": "string", "enum": [`+strings.Join(values, ",")+`]}
		}}}}
	}`)
}

func TestRenderCommands_EnumThreshold(t *testing.T) {
	tests := []struct {
		size     int
		wantEnum bool
	}{
		{size: 1, wantEnum: true},
		{size: 19, wantEnum: true},
		{size: 20, wantEnum: false},
		{size: 45, wantEnum: false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d values", tt.size), func(t *testing.T) {
			pages := []catalog.Page{{Name: "Home", Actions: []catalog.Action{enumAction(t, tt.size)}}}
			got, err := RenderCommands(pages, "Home")
			if err != nil {
				t.Fatalf("RenderCommands: %v", err)
			}
			hasParamEnum := strings.Contains(got, "- choice (string: v0")
			hasBodyEnum := strings.Contains(got, "- also (string: v0")
			if hasParamEnum != tt.wantEnum || hasBodyEnum != tt.wantEnum {
				t.Errorf("enum rendered = %v/%v, want %v:\n%s", hasParamEnum, hasBodyEnum, tt.wantEnum, got)
			}
			if !tt.wantEnum && (!strings.Contains(got, "- choice (string). ") || !strings.Contains(got, "- also (string) ")) {
				t.Errorf("type token should remain without enum:\n%s", got)
			}
		})
	}
}

func TestRenderCommands_RequestBody(t *testing.T) {
	action := mustAction(t, `{
		"name": "createOrder",
		"description": "Create an order",
		"parameters": [
			{"name": "storeId", "in": "path", "required": true, "description": "Store", "schema": {"type": "integer"}},
			{"name": "dryRun", "in": "query", "schema": {"type": ["boolean", "null"]}}
		],
		"request_body_contents": {
			"text/plain": {"schema": {"type": "object", "properties": {"ignored": {"type": "string"}}}},
			"application/json": {"schema": {
				"type": "object",
				"required": ["sku", "id"],
				"properties": {
					"id":       {"type": "string", "readOnly": true},
					"sku":      {"type": "string", "description": "Product code"},
					"quantity": {"type": "integer", "enum": [1, 2.5, 10]},
					"note":     {"description": "Free text"}
				}
			}}
		}
	}`)
	got, err := RenderCommands([]catalog.Page{{Name: "Shop", Actions: []catalog.Action{action}}}, "Shop")
	if err != nil {
		t.Fatalf("RenderCommands: %v", err)
	}
	want := "1. createOrder: Create an order. PARAMETERS: " +
		"\n- storeId (integer): Store. REQUIRED" +
		"\n- dryRun (boolean,null). " +
		"\n- sku (string): Product code REQUIRED" +
		"\n- quantity (integer: 1,2.5,10) " +
		"\n- note (undefined): Free text \n"
	if got != want {
		t.Errorf("RenderCommands =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderCommands_DegradesOnMissingSchemas(t *testing.T) {
	action := catalog.Action{
		Name:        "ping",
		Description: "Ping",
		Parameters:  []catalog.Parameter{{Name: "x"}},
		RequestBodyContents: map[string]catalog.MediaType{
			catalog.ContentTypeJSON: {Schema: &catalog.Schema{Type: catalog.TypeSet{"string"}}},
		},
	}
	got, err := RenderCommands([]catalog.Page{{Name: "Home", Actions: []catalog.Action{action}}}, "Home")
	if err != nil {
		t.Fatalf("RenderCommands: %v", err)
	}
	if want := "1. ping: Ping. PARAMETERS: \n- x (undefined). \n"; got != want {
		t.Errorf("RenderCommands = %q, want %q", got, want)
	}
}

func TestPackageAssembleUsesWallClock(t *testing.T) {
	msgs, err := Assemble(nil, shopCatalog(t), "", "Home", acme, "English")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	today := time.Now().UTC().Format(time.DateOnly)
	yesterday := time.Now().UTC().Add(-time.Minute).Format(time.DateOnly)
	if !strings.Contains(msgs[0].Content, "The date today is "+today) &&
		!strings.Contains(msgs[0].Content, "The date today is "+yesterday) {
		t.Errorf("date stamp missing from prompt")
	}
}
