package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shipping struct {
	Weight  float64
	Carrier string
}

type productDefinition struct {
	ID       string
	Title    string
	SKU      string
	Price    float64
	Shipping shipping
}

type productInstance productDefinition

type productOverride struct {
	DefinitionID    string
	Title           *string
	Price           *float64
	ShippingCarrier *string
}

type productResolved struct {
	Source   Source
	Title    string
	SKU      string
	Price    float64
	Shipping shipping
}

func (r productResolved) ID() string { return r.Source.ID }

func products() Family[productDefinition, productOverride, productInstance, productResolved] {
	return Family[productDefinition, productOverride, productInstance, productResolved]{
		DefinitionID: func(d productDefinition) string { return d.ID },
		OverrideID:   func(o productOverride) string { return o.DefinitionID },
		InstanceID:   func(i productInstance) string { return i.ID },
		Definition: func(d productDefinition, o *productOverride) (productResolved, error) {
			r := productResolved{
				Source:   FromDefinition(d.ID),
				Title:    d.Title,
				SKU:      d.SKU,
				Price:    d.Price,
				Shipping: d.Shipping,
			}

			if o != nil {
				r.Title = Whole(d.Title, o.Title)
				r.Price = Whole(d.Price, o.Price)
				r.Shipping = Leaf(d.Shipping, o.ShippingCarrier, func(s *shipping, v string) { s.Carrier = v })
			}

			return r, nil
		},
		Instance: func(i productInstance) productResolved {
			return productResolved{
				Source:   FromInstance(i.ID),
				Title:    i.Title,
				SKU:      i.SKU,
				Price:    i.Price,
				Shipping: i.Shipping,
			}
		},
	}
}

func ptr[T any](v T) *T { return &v }

func mug() productDefinition {
	return productDefinition{
		ID: "A", Title: "Mug", SKU: "M-1", Price: 10,
		Shipping: shipping{Weight: 1, Carrier: "UPS"},
	}
}

func sticker() productInstance {
	return productInstance{
		ID: "B", Title: "Sticker", SKU: "S-1", Price: 2,
		Shipping: shipping{Weight: 0.1, Carrier: "USPS"},
	}
}

func TestResolveDefinition_MugScenario(t *testing.T) {
	def := mug()
	ovr := productOverride{DefinitionID: "A", Price: ptr(8.0), ShippingCarrier: ptr("DHL")}

	got, err := products().ResolveDefinition(def, &ovr)
	require.NoError(t, err)

	assert.Equal(t, productResolved{
		Source:   FromDefinition("A"),
		Title:    "Mug",
		SKU:      "M-1",
		Price:    8,
		Shipping: shipping{Weight: 1, Carrier: "DHL"},
	}, got)
	assert.Equal(t, "A", got.ID())
	assert.Equal(t, mug(), def, "definition must not be mutated")
}

func TestResolveInstance_StickerScenario(t *testing.T) {
	got := products().ResolveInstance(sticker())

	assert.Equal(t, FromInstance("B"), got.Source)
	assert.Equal(t, "B", got.ID())
	assert.Equal(t, "Sticker", got.Title)
	assert.Equal(t, "S-1", got.SKU)
	assert.InDelta(t, 2.0, got.Price, 1e-9)
	assert.Equal(t, shipping{Weight: 0.1, Carrier: "USPS"}, got.Shipping)
}

func TestResolveDefinition_NoOverride(t *testing.T) {
	got, err := products().ResolveDefinition(mug(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Mug", got.Title)
	assert.InDelta(t, 10.0, got.Price, 1e-9)
	assert.Equal(t, "UPS", got.Shipping.Carrier)
}

func TestResolveDefinition_EmptyOverrideEqualsNone(t *testing.T) {
	f := products()

	withEmpty, err := f.ResolveDefinition(mug(), &productOverride{DefinitionID: "A"})
	require.NoError(t, err)

	without, err := f.ResolveDefinition(mug(), nil)
	require.NoError(t, err)

	assert.Equal(t, without, withEmpty)
}

func TestResolveDefinition_Mismatch(t *testing.T) {
	_, err := products().ResolveDefinition(mug(), &productOverride{DefinitionID: "Z"})
	require.ErrorIs(t, err, ErrOverrideMismatch)
}

func TestResolve_SetComposition(t *testing.T) {
	second := mug()
	second.ID = "C"
	second.Title = "Cup"

	defs := []productDefinition{mug(), second}
	ovrs := []productOverride{{DefinitionID: "C", Title: ptr("Big Cup")}}
	insts := []productInstance{sticker()}

	got, err := products().Resolve(defs, ovrs, insts)
	require.NoError(t, err)
	require.Len(t, got, len(defs)+len(insts))

	assert.Equal(t, []string{"A", "C", "B"}, []string{got[0].ID(), got[1].ID(), got[2].ID()})
	assert.Equal(t, "Mug", got[0].Title)
	assert.Equal(t, "Big Cup", got[1].Title)
	assert.True(t, got[2].Source.IsInstance())
	assert.Equal(t, "Big Cup", *ovrs[0].Title, "override must not be mutated")
}

func TestResolveDefinitions_Duplicates(t *testing.T) {
	ovrs := []productOverride{
		{DefinitionID: "A", Price: ptr(8.0)},
		{DefinitionID: "A", Price: ptr(7.0)},
	}

	f := products()

	_, err := f.ResolveDefinitions([]productDefinition{mug()}, ovrs)
	require.ErrorIs(t, err, ErrDuplicateOverride)

	f.Duplicates = LastWins

	got, err := f.ResolveDefinitions([]productDefinition{mug()}, ovrs)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, got[0].Price, 1e-9)
}

func TestResolveInstances_Empty(t *testing.T) {
	got := products().ResolveInstances(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestResolveInstance_NotInstantiable(t *testing.T) {
	f := products()
	f.Instance = nil

	assert.PanicsWithValue(t, ErrNotInstantiable, func() {
		f.ResolveInstance(sticker())
	})
}

func TestResolveSet(t *testing.T) {
	b := mug()
	b.ID = "b"
	a := mug()
	a.ID = "a"
	dupe := b
	dupe.Title = "ignored"

	got, err := products().ResolveSet([]productDefinition{b, a, dupe}, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID())
	assert.Equal(t, "b", got[1].ID())
	assert.Equal(t, "Mug", got[1].Title)

	insts := products().ResolveInstanceSet([]productInstance{sticker(), sticker()})
	assert.Len(t, insts, 1)
}

func TestResolveOptional(t *testing.T) {
	f := products()

	got, err := f.ResolveOptional(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	def := mug()
	got, err = f.ResolveOptional(&def, &productOverride{DefinitionID: "A", Title: ptr("Jar")})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jar", got.Title)

	assert.Nil(t, f.ResolveOptionalInstance(nil))

	inst := sticker()
	assert.Equal(t, "B", f.ResolveOptionalInstance(&inst).ID())

	defs, err := f.ResolveOptionalDefinitions(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, defs)

	list := []productDefinition{mug()}
	defs, err = f.ResolveOptionalDefinitions(&list, nil)
	require.NoError(t, err)
	require.NotNil(t, defs)
	assert.Len(t, *defs, 1)

	assert.Nil(t, f.ResolveOptionalInstances(nil))

	set, err := f.ResolveOptionalSet(&list, nil)
	require.NoError(t, err)
	assert.Len(t, *set, 1)

	assert.Nil(t, f.ResolveOptionalInstanceSet(nil))
}
