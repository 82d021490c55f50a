package cooking

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeStore struct {
	recipes map[string]*Recipe
	err     error
}

func (f *fakeStore) RecipeByName(_ context.Context, name string) (*Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.recipes[strings.ToLower(name)]
	if !ok {
		return nil, ErrRecipeNotFound
	}
	return r, nil
}

func pho() *Recipe {
	return &Recipe{
		Name:         "Phở bò",
		Cuisine:      "Việt Nam",
		Difficulty:   "Trung bình",
		PrepTime:     30,
		CookTime:     180,
		Servings:     2,
		Ingredients:  []string{"400g bánh phở", "200g thịt bò", "1 củ hành tây", "Hành lá"},
		Instructions: []string{"Ninh xương bò", "Trụng bánh phở", "3. Chan nước dùng"},
		Tips:         "Nướng gừng và hành trước khi ninh",
		Nutrition:    map[string]string{"calories": "450", "protein": "30g", "carbs": "55g"},
	}
}

func newToolbox() *Toolbox {
	return NewToolbox(&fakeStore{recipes: map[string]*Recipe{"phở bò": pho()}})
}

func TestExecute_RecipeFinder(t *testing.T) {
	out, err := newToolbox().Execute(context.Background(), ToolRecipeFinder, " Phở Bò ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Đây là công thức nấu món Phở bò:",
		"Thời gian nấu: 180 phút",
		"Nguyên liệu cần có:\n- 400g bánh phở\n- 200g thịt bò",
		"Các bước thực hiện:\n1. Ninh xương bò\n2. Trụng bánh phở\n3. Chan nước dùng",
		"Mẹo: Nướng gừng và hành trước khi ninh",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestExecute_RecipeNotFound(t *testing.T) {
	out, err := newToolbox().Execute(context.Background(), ToolRecipeFinder, "bún chả")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "không tìm thấy món bún chả") {
		t.Errorf("expected not found message, got %q", out)
	}
}

func TestExecute_StoreError(t *testing.T) {
	tb := NewToolbox(&fakeStore{err: errors.New("connection reset")})
	if _, err := tb.Execute(context.Background(), ToolCookingTimer, "Phở bò"); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestExecute_PortionCalculator(t *testing.T) {
	out, err := newToolbox().Execute(context.Background(), ToolPortionCalculator, "Phở bò, 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Khẩu phần điều chỉnh cho 3 người\nNguyên liệu:\n- 600g bánh phở\n- 300g thịt bò\n- 1.5 củ hành tây\n- Hành lá"
	if out != want {
		t.Errorf("unexpected output:\n got  %q\n want %q", out, want)
	}
}

func TestExecute_PortionCalculatorBadInput(t *testing.T) {
	for _, in := range []string{"Phở bò", "Phở bò, bốn", "Phở bò, 0"} {
		out, err := newToolbox().Execute(context.Background(), ToolPortionCalculator, in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Vui lòng cho biết tên món và số người") {
			t.Errorf("input %q: expected usage message, got %q", in, out)
		}
	}
}

func TestExecute_CookingTimer(t *testing.T) {
	out, _ := newToolbox().Execute(context.Background(), ToolCookingTimer, "phở bò")
	if !strings.Contains(out, "Tổng thời gian: 210 phút") {
		t.Errorf("expected total time, got:\n%s", out)
	}
}

func TestExecute_NutritionInfo(t *testing.T) {
	out, _ := newToolbox().Execute(context.Background(), ToolNutritionInfo, "phở bò")
	for _, want := range []string{"Calories: 450", "Protein: 30g", "Chất béo: không rõ", "đủ cho 2 người ăn"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestExecute_ListIngredients(t *testing.T) {
	out, _ := newToolbox().Execute(context.Background(), ToolListIngredients, "phở bò")
	if !strings.HasPrefix(out, "Để nấu món phở bò, bạn cần những nguyên liệu sau:\n- 400g bánh phở") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestExecute_Substitute(t *testing.T) {
	tb := newToolbox()

	out, _ := tb.Execute(context.Background(), ToolIngredientSubstitute, "Trứng")
	if !strings.Contains(out, "chuối nghiền") {
		t.Errorf("expected substitutes for trứng, got %q", out)
	}

	out, _ = tb.Execute(context.Background(), ToolIngredientSubstitute, "nghệ")
	if !strings.HasPrefix(out, "Không tìm thấy nguyên liệu thay thế") {
		t.Errorf("expected no-substitute message, got %q", out)
	}
}

func TestExecute_UnknownTool(t *testing.T) {
	out, err := newToolbox().Execute(context.Background(), "oven_control", "200")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Không tìm thấy công cụ oven_control" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestSplitListAndNutrition(t *testing.T) {
	if got := SplitList(" a ; ;b;"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("unexpected split %q", got)
	}

	n := ParseNutrition("calories:450;protein: 30g;bogus;fat:12g")
	if n["calories"] != "450" || n["protein"] != "30g" || n["fat"] != "12g" || len(n) != 3 {
		t.Errorf("unexpected nutrition %v", n)
	}
	if got := JoinNutrition(n); got != "calories:450;protein:30g;fat:12g" {
		t.Errorf("unexpected join %q", got)
	}
}

func TestTools_ReturnsCopy(t *testing.T) {
	tb := newToolbox()
	list := tb.Tools()
	list[0].Name = "changed"
	if tb.Tools()[0].Name != ToolRecipeFinder {
		t.Error("Tools must return a copy")
	}
}
