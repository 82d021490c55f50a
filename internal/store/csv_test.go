package store

import (
	"reflect"
	"strings"
	"testing"
)

const recipesCSV = `recipe_name,cuisine,difficulty,prep_time,cook_time,servings,ingredients,instructions,tips,nutrition
Phở bò,Việt Nam,Trung bình,30,180,2,"400g bánh phở;200g thịt bò;1 củ hành tây","Ninh xương;Trụng bánh;Chan nước dùng",Nướng gừng trước khi ninh,"calories:450;protein:30g;carbs:55g;fat:12g"
Trứng chiên,Việt Nam,Dễ,5,5,1,"2 quả trứng;1 muỗng nước mắm","Đánh trứng;Chiên vàng",,
`

func TestParseRecipesCSV(t *testing.T) {
	recipes, err := ParseRecipesCSV(strings.NewReader(recipesCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recipes) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(recipes))
	}

	pho := recipes[0]
	if pho.Name != "Phở bò" || pho.PrepTime != 30 || pho.CookTime != 180 || pho.Servings != 2 {
		t.Errorf("unexpected recipe header fields: %+v", pho)
	}
	if !reflect.DeepEqual(pho.Ingredients, []string{"400g bánh phở", "200g thịt bò", "1 củ hành tây"}) {
		t.Errorf("unexpected ingredients %q", pho.Ingredients)
	}
	if len(pho.Instructions) != 3 || pho.Instructions[2] != "Chan nước dùng" {
		t.Errorf("unexpected instructions %q", pho.Instructions)
	}
	if pho.Nutrition["fat"] != "12g" {
		t.Errorf("unexpected nutrition %v", pho.Nutrition)
	}

	egg := recipes[1]
	if egg.Tips != "" || len(egg.Nutrition) != 0 {
		t.Errorf("expected empty optional fields, got %+v", egg)
	}
}

func TestParseRecipesCSV_ColumnOrderAndBOM(t *testing.T) {
	in := "\ufeffinstructions,recipe_name,ingredients\nLuộc,Rau muống luộc,Rau muống\n"
	recipes, err := ParseRecipesCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recipes[0].Name != "Rau muống luộc" || recipes[0].Instructions[0] != "Luộc" {
		t.Errorf("unexpected recipe %+v", recipes[0])
	}
}

func TestParseRecipesCSV_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"missing column": "recipe_name,cuisine\nPhở,VN\n",
		"bad number":     "recipe_name,ingredients,instructions,servings\nPhở,a,b,hai\n",
		"empty name":     "recipe_name,ingredients,instructions\n,a,b\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseRecipesCSV(strings.NewReader(in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
