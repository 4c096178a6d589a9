package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// fakeCategoryRepo repositorio en memoria para categorías.
type fakeCategoryRepo struct {
	categories map[string]*entity.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[string]*entity.Category{}}
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, c *entity.Category) error {
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) List(_ context.Context, limit, offset int) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.categories {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id string) error {
	delete(r.categories, id)
	return nil
}

func TestCategoryCreate_Y_GetByID(t *testing.T) {
	uc := usecase.NewCategoryUseCase(newFakeCategoryRepo())

	created, err := uc.Create(context.Background(), dto.CreateCategoryRequest{
		Name: "Ferretería", Description: "tornillería y herramientas",
	}, "admin-user")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "admin-user", created.CreatedBy)

	got, err := uc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ferretería", got.Name)
}

func TestCategoryCreate_NombreDuplicado_RetornaErrDuplicate(t *testing.T) {
	uc := usecase.NewCategoryUseCase(newFakeCategoryRepo())
	_, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "Eléctricos"}, "admin-user")
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "Eléctricos"}, "admin-user")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCategoryCreate_NombreVacio_RetornaErrInvalidInput(t *testing.T) {
	uc := usecase.NewCategoryUseCase(newFakeCategoryRepo())
	_, err := uc.Create(context.Background(), dto.CreateCategoryRequest{}, "admin-user")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategoryUpdate_RenombrarANombreTomado_RetornaErrDuplicate(t *testing.T) {
	uc := usecase.NewCategoryUseCase(newFakeCategoryRepo())
	_, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "Pinturas"}, "admin-user")
	require.NoError(t, err)
	other, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "Solventes"}, "admin-user")
	require.NoError(t, err)

	name := "Pinturas"
	_, err = uc.Update(context.Background(), other.ID, dto.UpdateCategoryRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCategoryUpdate_Parcial(t *testing.T) {
	uc := usecase.NewCategoryUseCase(newFakeCategoryRepo())
	created, err := uc.Create(context.Background(), dto.CreateCategoryRequest{
		Name: "Plomería", Description: "tubos",
	}, "admin-user")
	require.NoError(t, err)

	desc := "tubería y accesorios"
	out, err := uc.Update(context.Background(), created.ID, dto.UpdateCategoryRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Plomería", out.Name, "name nil no debe cambiar")
	assert.Equal(t, desc, out.Description)
}

func TestCategoryDelete_Inexistente_RetornaErrNotFound(t *testing.T) {
	uc := usecase.NewCategoryUseCase(newFakeCategoryRepo())
	err := uc.Delete(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryDelete_Existente(t *testing.T) {
	uc := usecase.NewCategoryUseCase(newFakeCategoryRepo())
	created, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "Temporal"}, "admin-user")
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), created.ID))
	_, err = uc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
