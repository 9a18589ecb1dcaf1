package pagination

import "testing"

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name      string
		req       PageRequest
		wantData  []int
		wantPages int
		wantPage  int
	}{
		{"defaults", PageRequest{}, []int{1, 2, 3, 4, 5}, 1, 1},
		{"first_page", PageRequest{Page: 1, PageSize: 2}, []int{1, 2}, 3, 1},
		{"last_partial_page", PageRequest{Page: 3, PageSize: 2}, []int{5}, 3, 3},
		{"past_the_end", PageRequest{Page: 9, PageSize: 2}, []int{}, 3, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Slice(items, tt.req)
			if len(resp.Data) != len(tt.wantData) {
				t.Fatalf("expected %v, got %v", tt.wantData, resp.Data)
			}
			for i := range tt.wantData {
				if resp.Data[i] != tt.wantData[i] {
					t.Fatalf("expected %v, got %v", tt.wantData, resp.Data)
				}
			}
			if resp.TotalItems != 5 || resp.TotalPages != tt.wantPages || resp.Page != tt.wantPage {
				t.Errorf("unexpected metadata: %+v", resp)
			}
		})
	}

	t.Run("nil_input_yields_empty_data", func(t *testing.T) {
		resp := Slice[int](nil, PageRequest{})
		if resp.Data == nil || resp.TotalPages != 0 {
			t.Errorf("unexpected response: %+v", resp)
		}
	})
}
