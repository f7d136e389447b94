package fields

type categoryGroup struct {
	category Category
	fields   []FieldDefinition
}

// standardCatalog declares the twenty fields, five per category
func standardCatalog() []categoryGroup {
	return []categoryGroup{
		{
			category: CategoryBasic,
			fields: []FieldDefinition{
				{Key: "name", Label: "名前", InputType: InputText},
				{Key: "age", Label: "年齢", InputType: InputNumber},
				{Key: "gender", Label: "性別", InputType: InputSelect, Options: []string{"男性", "女性", "その他", "秘密"}},
				{Key: "height", Label: "身長", InputType: InputText},
				{Key: "birthday", Label: "誕生日", InputType: InputText},
			},
		},
		{
			category: CategoryAppearance,
			fields: []FieldDefinition{
				{Key: "hairColor", Label: "髪色", InputType: InputText},
				{Key: "eyeColor", Label: "瞳色", InputType: InputText},
				{Key: "bodyType", Label: "体型", InputType: InputText},
				{Key: "features", Label: "特徴", InputType: InputText},
				{Key: "clothing", Label: "服装", InputType: InputText},
			},
		},
		{
			category: CategoryPersonality,
			fields: []FieldDefinition{
				{Key: "basicPersonality", Label: "基本性格", InputType: InputText},
				{Key: "trait1", Label: "性格特徴1", InputType: InputText},
				{Key: "trait2", Label: "性格特徴2", InputType: InputText},
				{Key: "speechStyle", Label: "口調", InputType: InputText},
				{Key: "hobbies", Label: "趣味", InputType: InputText},
			},
		},
		{
			category: CategoryBackground,
			fields: []FieldDefinition{
				{Key: "occupation", Label: "職業", InputType: InputText},
				{Key: "birthplace", Label: "出身地", InputType: InputText},
				{Key: "family", Label: "家族構成", InputType: InputText},
				{Key: "skills", Label: "特技", InputType: InputText},
				{Key: "favorites", Label: "好きなもの", InputType: InputText},
			},
		},
	}
}
