package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/keydeck/pkg/index"
	"github.com/ssargent/keydeck/pkg/keyword"
	"github.com/ssargent/keydeck/pkg/model"
)

// load reads a deck for the query commands. Issues go to stderr; only a
// stopped read is an error.
func (a *app) load(cmd *cobra.Command, path string) (*model.Model, error) {
	m, r, err := a.read(path)
	if err != nil {
		return nil, err
	}
	printIssues(cmd.ErrOrStderr(), r.Issues())
	return m, nil
}

func parseVector(s string) ([3]float64, error) {
	var p [3]float64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return p, fmt.Errorf("want x,y,z, got %q", s)
	}
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return p, fmt.Errorf("coordinate %d: %w", i+1, err)
		}
		p[i] = v
	}
	return p, nil
}

func joinInts(ids []int) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = strconv.Itoa(id)
	}
	return strings.Join(s, " ")
}

func newNodesCmd(a *app) *cobra.Command {
	var (
		id     int
		near   string
		radius float64
	)

	cmd := &cobra.Command{
		Use:   "nodes <deck>",
		Short: "Query the nodes of a deck",
		Long: `Without flags, print the node count and bounding box. --id prints
one node and the elements using it. --near prints the closest node, or every
node within --radius.

Example:
  keydeck nodes model.k --near 0,0,10 --radius 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			nm := index.NewNodeManager(m)
			if err := nm.Build(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch {
			case cmd.Flags().Changed("id"):
				p, err := nm.Position(id)
				if err != nil {
					return err
				}
				elems, err := nm.ConnectedElements(id)
				if err != nil {
					return err
				}
				w := newTable(out)
				fmt.Fprintf(w, "Node:\t%d\n", id)
				fmt.Fprintf(w, "Position:\t%s\n", formatPoint(p))
				fmt.Fprintf(w, "Elements:\t%s\n", joinInts(elems))
				return w.Flush()

			case near != "":
				p, err := parseVector(near)
				if err != nil {
					return err
				}
				if radius > 0 {
					ids, err := nm.WithinRadius(p, radius)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%d nodes within %g of %s\n", len(ids), radius, formatPoint(p))
					if len(ids) > 0 {
						fmt.Fprintln(out, joinInts(ids))
					}
					return nil
				}
				nid, d, err := nm.Nearest(p)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "nearest node %d at distance %g\n", nid, d)
				return nil
			}

			w := newTable(out)
			fmt.Fprintf(w, "Nodes:\t%d\n", nm.Count())
			if box, err := nm.BoundingBox(); err == nil {
				fmt.Fprintf(w, "Min:\t%s\n", formatPoint(box.Min))
				fmt.Fprintf(w, "Max:\t%s\n", formatPoint(box.Max))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "node id")
	cmd.Flags().StringVar(&near, "near", "", "point as x,y,z")
	cmd.Flags().Float64Var(&radius, "radius", 0, "search radius around --near")
	return cmd
}

func newElementsCmd(a *app) *cobra.Command {
	var (
		id int
		at float64
	)

	cmd := &cobra.Command{
		Use:   "elements <deck>",
		Short: "Query the elements of a deck",
		Long: `Without flags, print element counts per family. --id prints one
element. --at evaluates birth and death times at a simulation time.

Example:
  keydeck elements model.k --id 1001 --at 0.05`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			em := index.NewElementManager(m)
			if err := em.Build(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			atSet := cmd.Flags().Changed("at")

			if cmd.Flags().Changed("id") {
				e, err := em.Element(id)
				if err != nil {
					return err
				}
				w := newTable(out)
				fmt.Fprintf(w, "Element:\t%d\n", e.ID)
				fmt.Fprintf(w, "Type:\t%s\n", e.Type)
				fmt.Fprintf(w, "Part:\t%d\n", e.PartID)
				fmt.Fprintf(w, "Nodes:\t%s\n", joinInts(e.Nodes))
				if shape, err := em.SolidShape(id); err == nil {
					fmt.Fprintf(w, "Shape:\t%s\n", shape)
				}
				if segs, err := em.Segments(id); err == nil && len(segs) > 0 {
					fmt.Fprintf(w, "Faces:\t%d\n", len(segs))
				}
				if t, ok := em.BirthTime(id); ok {
					fmt.Fprintf(w, "Birth:\t%g\n", t)
				}
				if t, ok := em.DeathTime(id); ok {
					fmt.Fprintf(w, "Death:\t%g\n", t)
				}
				if atSet {
					fmt.Fprintf(w, "Alive at %g:\t%t\n", at, em.IsAliveAt(id, at))
				}
				return w.Flush()
			}

			if atSet {
				alive, err := em.AliveAt(at)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d of %d elements alive at %g\n", len(alive), em.Count(), at)
				return nil
			}

			w := newTable(out)
			fmt.Fprintln(w, "TYPE\tCOUNT")
			types := []keyword.ElementType{
				keyword.ElementShell, keyword.ElementSolid, keyword.ElementBeam,
				keyword.ElementDiscrete, keyword.ElementSeatbelt,
			}
			for _, t := range types {
				ids, err := em.IDsOfType(t)
				if err != nil {
					return err
				}
				if len(ids) > 0 {
					fmt.Fprintf(w, "%s\t%d\n", t, len(ids))
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if dups := em.Duplicates(); len(dups) > 0 {
				fmt.Fprintf(out, "duplicate ids: %s\n", joinInts(dups))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "element id")
	cmd.Flags().Float64Var(&at, "at", 0, "simulation time for birth and death")
	return cmd
}

func newPartsCmd(a *app) *cobra.Command {
	var id int

	cmd := &cobra.Command{
		Use:   "parts <deck>",
		Short: "Query the parts of a deck",
		Long: `Without flags, list every part. --id prints the statistics of one
part.

Example:
  keydeck parts model.k --id 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			pm := index.NewPartManager(m)
			if err := pm.Build(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if cmd.Flags().Changed("id") {
				stats, err := pm.Stats(id)
				if err != nil {
					return err
				}
				w := newTable(out)
				fmt.Fprintf(w, "Part:\t%d\n", stats.ID)
				fmt.Fprintf(w, "Title:\t%s\n", stats.Title)
				fmt.Fprintf(w, "Section:\t%d\n", stats.SectionID)
				fmt.Fprintf(w, "Material:\t%d\n", stats.MaterialID)
				fmt.Fprintf(w, "Elements:\t%d\n", stats.ElementCount())
				types := make([]keyword.ElementType, 0, len(stats.Elements))
				for t := range stats.Elements {
					types = append(types, t)
				}
				sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
				for _, t := range types {
					fmt.Fprintf(w, "  %s:\t%d\n", t, stats.Elements[t])
				}
				fmt.Fprintf(w, "Nodes:\t%d\n", stats.Nodes)
				if stats.Nodes > 0 {
					fmt.Fprintf(w, "Min:\t%s\n", formatPoint(stats.Box.Min))
					fmt.Fprintf(w, "Max:\t%s\n", formatPoint(stats.Box.Max))
					fmt.Fprintf(w, "Centroid:\t%s\n", formatPoint(stats.Centroid))
				}
				return w.Flush()
			}

			ids, err := pm.IDs()
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(out, "No parts found")
				return nil
			}
			w := newTable(out)
			fmt.Fprintln(w, "ID\tTITLE\tELEMENTS\tNODES\tSECID\tMID")
			for _, pid := range ids {
				p, err := pm.Part(pid)
				if err != nil {
					return err
				}
				elems, _ := pm.Elements(pid)
				nodes, _ := pm.Nodes(pid)
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\n", pid, p.Title, len(elems), len(nodes), p.SectionID, p.MaterialID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "part id")
	return cmd
}
