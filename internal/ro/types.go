package ro

// Interface is the RO form of a data type declaration.
type Interface struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Ancestors   []string       `json:"ancestors"`
	Schema      map[string]any `json:"schema,omitempty"`
}

// Port is an input or output of a workflow node. Interface holds the RO id
// of the port's interface.
type Port struct {
	Name        string `json:"name"`
	Interface   string `json:"interface"`
	Default     any    `json:"default"`
	Description string `json:"description"`
}

// Node is the RO form of a workflow node (a function with typed ports).
type Node struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Version     int    `json:"version"`
	Function    string `json:"function"`
	Inputs      []Port `json:"inputs"`
	Outputs     []Port `json:"outputs"`
}

// WorkflowNode places a node definition inside a workflow.
type WorkflowNode struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// WorkflowLink connects an output port to an input port. Source and Target
// index into Workflow.Nodes.
type WorkflowLink struct {
	Source     int    `json:"source"`
	SourcePort string `json:"source_port"`
	Target     int    `json:"target"`
	TargetPort string `json:"target_port"`
}

// Workflow is the RO form of a composite dataflow.
type Workflow struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Author      string         `json:"author"`
	Version     int            `json:"version"`
	Nodes       []WorkflowNode `json:"nodes"`
	Links       []WorkflowLink `json:"links"`
}

// Prov is the subset of an execution provenance record the uploader reads.
// Uploads operate on the Def so unknown fields survive.
type Prov struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Name       string          `json:"name"`
	Workflow   string          `json:"workflow"`
	Executions []ProvExecution `json:"executions"`
	Data       []ProvData      `json:"data"`
}

// ProvExecution records one node execution.
type ProvExecution struct {
	Node    any            `json:"node"`
	Inputs  []ProvPortData `json:"inputs"`
	Outputs []ProvPortData `json:"outputs"`
}

// ProvPortData binds a port to a data entry; Data is nil for unset ports.
type ProvPortData struct {
	Port any     `json:"port"`
	Data *string `json:"data"`
}

// ProvData is a value produced or consumed during an execution. Type "ref"
// means Value holds the id of an RO registered on the catalog.
type ProvData struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// DataRef marks a ProvData whose value is a catalog reference.
const DataRef = "ref"
