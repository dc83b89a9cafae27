/*
 * Copyright 2022 ByteDance Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ir

import (
    `fmt`
    `html`
    `strings`
)

func dotrow(buf []string, w *int, s string) []string {
    for _, ss := range strings.Split(s, "\n") {
        vv := strings.ReplaceAll(html.EscapeString(ss), " ", "&nbsp;")
        buf = append(buf, fmt.Sprintf("<tr><td align=\"left\">%s</td></tr>\n", vv))
        if len(ss) > *w {
            *w = len(ss)
        }
    }
    return buf
}

func dotnode(p *Node, meta []string) string {
    var w int
    var phi []string
    var ins []string
    var ann []string

    /* dump every section */
    for _, v := range p.Phi { phi = dotrow(phi, &w, v.String()) }
    for _, v := range p.Ins { ins = dotrow(ins, &w, v.String()) }
    for _, v := range meta  { ann = dotrow(ann, &w, "# " + v) }

    /* node header */
    buf := []string {
        "<table border=\"1\" cellborder=\"0\" cellspacing=\"0\">\n",
        fmt.Sprintf("<tr><td width=\"%d\">%s (%s)</td></tr>\n", w * 10 + 5, html.EscapeString(p.String()), p.Kind),
    }

    /* add the non-empty sections */
    for _, sec := range [][]string { ann, phi, ins } {
        if len(sec) != 0 {
            buf = append(buf, "<hr/>\n")
            buf = append(buf, sec...)
        }
    }

    /* join them together */
    buf = append(buf, "</table>")
    return strings.Join(buf, "")
}

// Dot renders the graph in Graphviz format. meta may be nil, otherwise it
// provides extra annotation lines for each node.
func Dot(g *Graph, meta func(p *Node) []string) string {
    buf := []string {
        "digraph CFG {",
        `    graph [ fontname = "Fira Code" ]`,
        `    node [ fontname = "Fira Code" fontsize = "16" shape = "plaintext" ]`,
        `    edge [ fontname = "Fira Code" ]`,
    }

    /* dump every node */
    for _, p := range g.Nodes {
        var ann []string
        if meta != nil {
            ann = meta(p)
        }
        buf = append(buf, fmt.Sprintf(`    bb_%d [ label = < %s > ]`, p.Seq, dotnode(p, ann)))
    }

    /* dump every edge, labelled with its position */
    for _, p := range g.Nodes {
        for i, s := range p.Succ {
            if len(p.Succ) == 1 {
                buf = append(buf, fmt.Sprintf(`    bb_%d -> bb_%d`, p.Seq, s.Seq))
            } else {
                buf = append(buf, fmt.Sprintf(`    bb_%d -> bb_%d [ label = "%d" ]`, p.Seq, s.Seq, i))
            }
        }
    }

    /* join them together */
    buf = append(buf, "}")
    return strings.Join(buf, "\n")
}
