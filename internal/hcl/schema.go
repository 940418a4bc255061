package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes the top-level blocks of a file. Bodies are kept raw so
// they can be decoded once locals are known.
type fileRoot struct {
	Locals []*localsBlock `hcl:"locals,block"`
	Graphs []*graphBlock  `hcl:"graph,block"`
}

type localsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type graphBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

type graphSpec struct {
	Criterion   string         `hcl:"criterion,optional"`
	Actors      []*actorSpec   `hcl:"actor,block"`
	Connections []*connectSpec `hcl:"connect,block"`
}

type actorSpec struct {
	Name        string        `hcl:"name,label"`
	Repetitions int           `hcl:"repetitions"`
	Inputs      []*inputSpec  `hcl:"input,block"`
	Outputs     []*outputSpec `hcl:"output,block"`
	Profile     *profileSpec  `hcl:"profile,block"`
}

type inputSpec struct {
	Name string `hcl:"name,label"`
	Rate *int   `hcl:"rate,optional"`
}

type outputSpec struct {
	Name          string `hcl:"name,label"`
	Rate          *int   `hcl:"rate,optional"`
	InitialTokens int    `hcl:"initial_tokens,optional"`
}

type profileSpec struct {
	SharedBuffer    int `hcl:"shared_buffer,optional"`
	ExclusiveBuffer int `hcl:"exclusive_buffer,optional"`
	SharedTime      int `hcl:"shared_time,optional"`
	ExclusiveTime   int `hcl:"exclusive_time,optional"`
}

// connectSpec is written as `connect "A.out" "B.in" {}`.
type connectSpec struct {
	From string `hcl:"from,label"`
	To   string `hcl:"to,label"`
}
