package department

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/staffpulse/analytics-api/internal/domain/common"
	"github.com/staffpulse/analytics-api/internal/domain/department"
)

type departmentServiceImpl struct {
	departmentRepo department.DepartmentRepository
}

func NewDepartmentService(departmentRepo department.DepartmentRepository) department.DepartmentService {
	return &departmentServiceImpl{departmentRepo: departmentRepo}
}

// ListDepartments implements department.DepartmentService.
func (s *departmentServiceImpl) ListDepartments(ctx context.Context, search string) ([]department.DepartmentResponse, error) {
	matched, err := s.departmentRepo.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}

	all, err := s.departmentRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	byID := lo.SliceToMap(all, func(d department.Department) (int64, department.Department) { return d.ID, d })

	responses := make([]department.DepartmentResponse, 0, len(matched))
	for _, d := range matched {
		responses = append(responses, toResponse(d, byID, nil))
	}
	return responses, nil
}

// GetDepartment implements department.DepartmentService.
func (s *departmentServiceImpl) GetDepartment(ctx context.Context, id int64) (department.DepartmentResponse, error) {
	d, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, err
	}

	all, err := s.departmentRepo.List(ctx, "")
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	byID := lo.SliceToMap(all, func(d department.Department) (int64, department.Department) { return d.ID, d })

	children := lo.Filter(all, func(c department.Department, _ int) bool { return c.HasParent(id) })
	refs := lo.Map(children, func(c department.Department, _ int) common.Ref {
		return common.Ref{ID: c.ID, Name: c.Name}
	})

	return toResponse(d, byID, refs), nil
}

// CreateDepartment implements department.DepartmentService.
func (s *departmentServiceImpl) CreateDepartment(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	exists, err := s.departmentRepo.ExistsByName(ctx, req.Name, 0)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	if exists {
		return department.DepartmentResponse{}, department.ErrDepartmentNameExists
	}

	if req.ParentID != nil {
		if err := s.ensureParent(ctx, *req.ParentID); err != nil {
			return department.DepartmentResponse{}, err
		}
	}

	created, err := s.departmentRepo.Create(ctx, department.Department{
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		return department.DepartmentResponse{}, err
	}

	return s.GetDepartment(ctx, created.ID)
}

// UpdateDepartment implements department.DepartmentService.
func (s *departmentServiceImpl) UpdateDepartment(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	existing, err := s.departmentRepo.GetByID(ctx, req.ID)
	if err != nil {
		return department.DepartmentResponse{}, err
	}

	if req.Name != nil && *req.Name != existing.Name {
		exists, err := s.departmentRepo.ExistsByName(ctx, *req.Name, req.ID)
		if err != nil {
			return department.DepartmentResponse{}, err
		}
		if exists {
			return department.DepartmentResponse{}, department.ErrDepartmentNameExists
		}
		existing.Name = *req.Name
	}

	if req.ParentID.Set {
		if req.ParentID.Value != nil {
			if err := s.ensureParent(ctx, *req.ParentID.Value); err != nil {
				return department.DepartmentResponse{}, err
			}
			if err := s.ensureNoCycle(ctx, req.ID, *req.ParentID.Value); err != nil {
				return department.DepartmentResponse{}, err
			}
		}
		existing.ParentID = req.ParentID.Value
	}

	if _, err := s.departmentRepo.Update(ctx, existing); err != nil {
		return department.DepartmentResponse{}, err
	}

	return s.GetDepartment(ctx, req.ID)
}

// DeleteDepartment implements department.DepartmentService.
func (s *departmentServiceImpl) DeleteDepartment(ctx context.Context, id int64) error {
	if _, err := s.departmentRepo.GetByID(ctx, id); err != nil {
		return err
	}

	children, err := s.departmentRepo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return department.ErrHasChildren
	}

	return s.departmentRepo.Delete(ctx, id)
}

// GetHierarchy implements department.DepartmentService.
func (s *departmentServiceImpl) GetHierarchy(ctx context.Context) ([]department.DepartmentNode, error) {
	all, err := s.departmentRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}

	childrenOf := make(map[int64][]department.Department)
	for _, d := range all {
		if d.ParentID != nil {
			childrenOf[*d.ParentID] = append(childrenOf[*d.ParentID], d)
		}
	}

	visited := make(map[int64]bool, len(all))
	var build func(d department.Department) department.DepartmentNode
	build = func(d department.Department) department.DepartmentNode {
		visited[d.ID] = true
		node := department.DepartmentNode{
			ID:       d.ID,
			Name:     d.Name,
			ParentID: d.ParentID,
			Children: make([]department.DepartmentNode, 0),
		}
		for _, child := range sortedByName(childrenOf[d.ID]) {
			if visited[child.ID] {
				continue
			}
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	roots := lo.Filter(all, func(d department.Department, _ int) bool { return d.IsRoot() })
	tree := make([]department.DepartmentNode, 0, len(roots))
	for _, root := range sortedByName(roots) {
		tree = append(tree, build(root))
	}
	return tree, nil
}

// ListOptions implements department.DepartmentService.
func (s *departmentServiceImpl) ListOptions(ctx context.Context, onlyRoots bool) ([]department.DepartmentOption, error) {
	all, err := s.departmentRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}

	if onlyRoots {
		all = lo.Filter(all, func(d department.Department, _ int) bool { return d.IsRoot() })
	}

	return lo.Map(all, func(d department.Department, _ int) department.DepartmentOption {
		return department.DepartmentOption{ID: d.ID, Name: d.Name, ParentID: d.ParentID}
	}), nil
}

// DescendantIDs implements department.DepartmentService.
func (s *departmentServiceImpl) DescendantIDs(ctx context.Context, id int64) ([]int64, error) {
	if _, err := s.departmentRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	all, err := s.departmentRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}

	childrenOf := make(map[int64][]int64)
	for _, d := range all {
		if d.ParentID != nil {
			childrenOf[*d.ParentID] = append(childrenOf[*d.ParentID], d.ID)
		}
	}

	ids := []int64{id}
	seen := map[int64]bool{id: true}
	for queue := []int64{id}; len(queue) > 0; queue = queue[1:] {
		for _, child := range childrenOf[queue[0]] {
			if seen[child] {
				continue
			}
			seen[child] = true
			ids = append(ids, child)
			queue = append(queue, child)
		}
	}
	return ids, nil
}

func (s *departmentServiceImpl) ensureParent(ctx context.Context, parentID int64) error {
	if _, err := s.departmentRepo.GetByID(ctx, parentID); err != nil {
		if errors.Is(err, department.ErrDepartmentNotFound) {
			return department.ErrParentNotFound
		}
		return err
	}
	return nil
}

// ensureNoCycle walks up from parentID and fails if it meets id.
func (s *departmentServiceImpl) ensureNoCycle(ctx context.Context, id, parentID int64) error {
	all, err := s.departmentRepo.List(ctx, "")
	if err != nil {
		return err
	}
	byID := lo.SliceToMap(all, func(d department.Department) (int64, department.Department) { return d.ID, d })

	current := &parentID
	for steps := 0; current != nil && steps <= len(all); steps++ {
		if *current == id {
			return department.ErrHierarchyCycle
		}
		d, ok := byID[*current]
		if !ok {
			return nil
		}
		current = d.ParentID
	}
	if current != nil {
		// the existing parent chain already loops
		return department.ErrHierarchyCycle
	}
	return nil
}

func sortedByName(departments []department.Department) []department.Department {
	sorted := append([]department.Department(nil), departments...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

func toResponse(d department.Department, byID map[int64]department.Department, children []common.Ref) department.DepartmentResponse {
	resp := department.DepartmentResponse{
		ID:        d.ID,
		Name:      d.Name,
		ParentID:  d.ParentID,
		Children:  children,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.ParentID != nil {
		if parent, ok := byID[*d.ParentID]; ok {
			resp.Parent = &common.Ref{ID: parent.ID, Name: parent.Name}
		}
	}
	return resp
}
