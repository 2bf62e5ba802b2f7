package container

import "testing"

func TestArray_AppendAndPop(t *testing.T) {
	a := New[int]()
	for i := 0; i < 5; i++ {
		a.Append(i * 10)
	}

	if a.Len() != 5 {
		t.Fatalf("expected length 5, got %d", a.Len())
	}

	elem, ok := a.Pop(2)
	if !ok {
		t.Fatal("Pop(2) reported not found on a valid index")
	}
	if elem != 20 {
		t.Errorf("Pop(2) returned %d, expected 20", elem)
	}
	if a.Len() != 4 {
		t.Errorf("length after Pop is %d, expected 4", a.Len())
	}
}

func TestArray_PopOutOfRange(t *testing.T) {
	a := New[int]()
	a.Append(1)

	if _, ok := a.Pop(3); ok {
		t.Error("Pop(3) on a single-element array should report not found")
	}
	if _, ok := a.Pop(-1); ok {
		t.Error("Pop(-1) should report not found")
	}
	if a.Len() != 1 {
		t.Errorf("failed Pop mutated the array, length is %d", a.Len())
	}
}

func TestArray_SwapRemoval(t *testing.T) {
	a := New[string]()
	a.Append("a")
	a.Append("b")
	a.Append("c")
	a.Append("d")

	// Removing a middle element moves the last element into its slot.
	a.Pop(1)

	if a.At(1) != "d" {
		t.Errorf("expected last element 'd' swapped into slot 1, got %q", a.At(1))
	}
	if a.At(0) != "a" || a.At(2) != "c" {
		t.Errorf("other elements changed: [%q %q %q]", a.At(0), a.At(1), a.At(2))
	}
}

func TestArray_RemoveByValue(t *testing.T) {
	type payload struct{ id int }

	a := New[*payload]()
	elems := []*payload{{0}, {1}, {2}}
	for _, e := range elems {
		a.Append(e)
	}

	i, ok := a.Remove(elems[1])
	if !ok {
		t.Fatal("Remove reported not found for a present element")
	}
	if i != 1 {
		t.Errorf("Remove returned index %d, expected 1", i)
	}
	if a.Len() != 2 {
		t.Errorf("length after Remove is %d, expected 2", a.Len())
	}
}

func TestArray_RemoveMissing(t *testing.T) {
	a := New[int]()
	a.Append(1)
	a.Append(2)

	if _, ok := a.Remove(42); ok {
		t.Error("Remove of a missing element reported found")
	}
	if a.Len() != 2 || a.At(0) != 1 || a.At(1) != 2 {
		t.Error("Remove of a missing element mutated the array")
	}
}

func TestArray_RemoveAtIndexZero(t *testing.T) {
	a := New[int]()
	a.Append(7)

	// Found-at-zero must be distinguishable from not-found.
	i, ok := a.Remove(7)
	if !ok || i != 0 {
		t.Errorf("Remove(7) = (%d, %v), expected (0, true)", i, ok)
	}
}

func TestArray_All(t *testing.T) {
	a := New[int]()
	for i := 0; i < 4; i++ {
		a.Append(i * 10)
	}

	var visited []int
	a.All(func(i int, elem int) bool {
		if elem != i*10 {
			t.Errorf("element at index %d is %d, expected %d", i, elem, i*10)
		}
		visited = append(visited, elem)
		return true
	})
	if len(visited) != 4 {
		t.Errorf("visited %d elements, expected 4", len(visited))
	}

	// Returning false stops the walk
	steps := 0
	a.All(func(int, int) bool {
		steps++
		return steps < 2
	})
	if steps != 2 {
		t.Errorf("walk took %d steps after an early stop, expected 2", steps)
	}
}

func TestArray_Clear(t *testing.T) {
	a := New[*int]()
	released := 0
	for i := 0; i < 3; i++ {
		v := i
		a.Append(&v)
	}

	a.Clear(func(*int) { released++ })

	if released != 3 {
		t.Errorf("release invoked %d times, expected 3", released)
	}
	if a.Len() != 0 {
		t.Errorf("length after Clear is %d, expected 0", a.Len())
	}
}
