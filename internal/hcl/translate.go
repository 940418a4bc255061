package hcl

import "github.com/vk/sdfsched/internal/config"

// translateGraph converts the HCL-specific graph schema into the
// format-agnostic model.
func translateGraph(name string, s *graphSpec) *config.Graph {
	g := &config.Graph{Name: name, Criterion: s.Criterion}
	for _, a := range s.Actors {
		g.Actors = append(g.Actors, translateActor(a))
	}
	for _, c := range s.Connections {
		g.Connections = append(g.Connections, &config.Connection{From: c.From, To: c.To})
	}
	return g
}

func translateActor(s *actorSpec) *config.Actor {
	a := &config.Actor{Name: s.Name, Repetitions: s.Repetitions}
	for _, in := range s.Inputs {
		a.Inputs = append(a.Inputs, &config.Input{Name: in.Name, Rate: rateOrDefault(in.Rate)})
	}
	for _, out := range s.Outputs {
		a.Outputs = append(a.Outputs, &config.Output{
			Name:          out.Name,
			Rate:          rateOrDefault(out.Rate),
			InitialTokens: out.InitialTokens,
		})
	}
	if p := s.Profile; p != nil {
		a.Profile = &config.Profile{
			SharedBuffer:    p.SharedBuffer,
			ExclusiveBuffer: p.ExclusiveBuffer,
			SharedTime:      p.SharedTime,
			ExclusiveTime:   p.ExclusiveTime,
		}
	}
	return a
}

func rateOrDefault(rate *int) int {
	if rate == nil {
		return config.DefaultRate
	}
	return *rate
}
