package models

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/trophy/pkg/math3d"
)

// LoadOBJ reads a Wavefront OBJ file into a Mesh. Faces with more than three
// vertices are fan-triangulated around their first vertex; any referenced
// .mtl library is parsed for per-face material assignment.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh := NewMesh(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

	var positions []math3d.Vec3
	var normals []math3d.Vec3
	var uvs []math3d.Vec2

	materialIndex := map[string]int{}
	currentMaterial := -1
	vertexCache := map[objVertexKey]int{}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("parse vertex: %w", err)
			}
			positions = append(positions, p)
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("parse normal: %w", err)
			}
			normals = append(normals, n)
		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("parse texcoord: line %q has too few fields", line)
			}
			u, err1 := strconv.ParseFloat(fields[1], 64)
			v, err2 := strconv.ParseFloat(fields[2], 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("parse texcoord: %w, %w", err1, err2)
			}
			uvs = append(uvs, math3d.V2(u, 1-v)) // OBJ is bottom-left origin
		case "f":
			if len(fields) < 4 {
				continue
			}
			indices := make([]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				idx, err := resolveOBJVertex(mesh, vertexCache, tok, positions, normals, uvs)
				if err != nil {
					return nil, err
				}
				indices = append(indices, idx)
			}
			// Fan-triangulate polygons with more than 3 vertices.
			for i := 1; i+1 < len(indices); i++ {
				mesh.Faces = append(mesh.Faces, Face{
					V:        [3]int{indices[0], indices[i], indices[i+1]},
					Material: currentMaterial,
				})
			}
		case "mtllib":
			libPath := filepath.Join(filepath.Dir(path), fields[1])
			mats, order, err := loadMTL(libPath)
			if err != nil {
				// Missing/unreadable material library is not fatal to the mesh.
				continue
			}
			for _, name := range order {
				materialIndex[name] = len(mesh.Materials)
				mesh.Materials = append(mesh.Materials, mats[name])
			}
		case "usemtl":
			if idx, ok := materialIndex[fields[1]]; ok {
				currentMaterial = idx
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}

	if len(normals) == 0 {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// objVertexKey deduplicates (position, uv, normal) index triples into a
// single MeshVertex, the same flattening glTF's accessor model does for us
// for free.
type objVertexKey struct {
	pos, uv, normal int
}

func resolveOBJVertex(mesh *Mesh, cache map[objVertexKey]int, tok string, positions, normals []math3d.Vec3, uvs []math3d.Vec2) (int, error) {
	parts := strings.Split(tok, "/")
	pi, err := parseOBJIndex(parts[0], len(positions))
	if err != nil {
		return 0, fmt.Errorf("parse face vertex %q: %w", tok, err)
	}

	key := objVertexKey{pos: pi, uv: -1, normal: -1}

	var uv math3d.Vec2
	if len(parts) > 1 && parts[1] != "" {
		ui, err := parseOBJIndex(parts[1], len(uvs))
		if err != nil {
			return 0, fmt.Errorf("parse face uv %q: %w", tok, err)
		}
		uv = uvs[ui]
		key.uv = ui
	}

	var normal math3d.Vec3
	if len(parts) > 2 && parts[2] != "" {
		ni, err := parseOBJIndex(parts[2], len(normals))
		if err != nil {
			return 0, fmt.Errorf("parse face normal %q: %w", tok, err)
		}
		normal = normals[ni]
		key.normal = ni
	}

	if idx, ok := cache[key]; ok {
		return idx, nil
	}

	idx := len(mesh.Vertices)
	mesh.Vertices = append(mesh.Vertices, MeshVertex{
		Position: positions[pi],
		Normal:   normal,
		UV:       uv,
	})
	cache[key] = idx
	return idx, nil
}

// parseOBJIndex resolves OBJ's 1-based (or negative, relative-to-end)
// vertex reference into a 0-based slice index.
func parseOBJIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return count + n, nil
	}
	return n - 1, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	x, err1 := strconv.ParseFloat(fields[0], 64)
	y, err2 := strconv.ParseFloat(fields[1], 64)
	z, err3 := strconv.ParseFloat(fields[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return math3d.Vec3{}, fmt.Errorf("invalid float component")
	}
	return math3d.V3(x, y, z), nil
}

// loadMTL parses a Wavefront .mtl material library, returning materials
// keyed by name and the order they were declared in (map iteration order
// is unspecified, and usemtl indices must be stable).
func loadMTL(path string) (map[string]Material, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	mats := map[string]Material{}
	var order []string
	var current string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "newmtl":
			current = fields[1]
			order = append(order, current)
			mats[current] = Material{Name: current, BaseColor: [4]float64{1, 1, 1, 1}, Roughness: 1}
		case "Kd":
			if current == "" || len(fields) < 4 {
				continue
			}
			r, _ := strconv.ParseFloat(fields[1], 64)
			g, _ := strconv.ParseFloat(fields[2], 64)
			b, _ := strconv.ParseFloat(fields[3], 64)
			m := mats[current]
			m.BaseColor[0], m.BaseColor[1], m.BaseColor[2] = r, g, b
			mats[current] = m
		case "map_Kd":
			if current == "" || len(fields) < 2 {
				continue
			}
			m := mats[current]
			m.HasTexture = true
			m.TexturePath = filepath.Join(filepath.Dir(path), fields[1])
			mats[current] = m
		case "Ns":
			if current == "" || len(fields) < 2 {
				continue
			}
			shininess, err := strconv.ParseFloat(fields[1], 64)
			if err == nil {
				m := mats[current]
				// Shininess in [0,1000] roughly inverts to roughness in [0,1].
				m.Roughness = 1 - min(shininess/1000, 1)
				mats[current] = m
			}
		}
	}
	return mats, order, scanner.Err()
}
