package main

import (
	"github.com/vango-dev/retree/pkg/tree"
)

// Group renders its children without a wrapper element.
type Group struct {
	tree.Fragment
}

func (g *Group) Render() (any, error) {
	return g.Children(), nil
}

// Panel renders a section with an optional h2 heading taken from its
// title attribute, followed by its children.
type Panel struct {
	tree.Component
}

func (p *Panel) Render() (any, error) {
	f := p.Factory()
	var heading *tree.Node
	if title, ok := p.Attributes()["title"].(string); ok && title != "" {
		var err error
		if heading, err = f.Create("h2", nil, title); err != nil {
			return nil, err
		}
	}
	attrs := tree.Attributes{"class": "panel"}
	if id, ok := p.Attributes()["id"]; ok {
		attrs["id"] = id
	}
	return f.Create("section", attrs, heading, p.Children())
}

var (
	groupType = tree.DefineFragment("Group", func() *Group { return &Group{} })
	panelType = tree.DefineComponent("Panel", func() *Panel { return &Panel{} })
)

func builtins() (*tree.Registry, error) {
	return tree.NewRegistry(groupType, panelType)
}
